// Package spinel implements the Spinel wire codec and HDLC-Lite framing
// used to talk to a Network Co-Processor over a serial link.
package spinel

import "fmt"

// Kind identifies the category of an Error.
type Kind int

const (
	KindHeader Kind = iota
	KindHdlcChecksum
	KindHdlcStartDelimiter
	KindHdlcEndDelimiter
	KindHostConnectionSend
	KindHostConnectionRecv
	KindUnknownCommand
	KindIO
	KindUnknownProperty
	KindPackedU32ByteCount
	KindPacketLength
	KindSerialConfig
	KindStatus
	KindUnexpectedResponse
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "invalid header"
	case KindHdlcChecksum:
		return "incorrect HDLC checksum"
	case KindHdlcStartDelimiter:
		return "incorrect starting delimiter"
	case KindHdlcEndDelimiter:
		return "incorrect ending delimiter"
	case KindHostConnectionSend:
		return "could not send message, host connection failure"
	case KindHostConnectionRecv:
		return "could not receive message, host connection failure"
	case KindUnknownCommand:
		return "unknown command"
	case KindIO:
		return "io error"
	case KindUnknownProperty:
		return "unknown property"
	case KindPackedU32ByteCount:
		return "invalid number of bytes for a packed integer"
	case KindPacketLength:
		return "incorrect packet length"
	case KindSerialConfig:
		return "error configuring serial port"
	case KindStatus:
		return "target status"
	case KindUnexpectedResponse:
		return "target sent unexpected response"
	case KindBusy:
		return "transaction table full"
	default:
		return "unknown error"
	}
}

// Error is the unified error type for the spinel stack. Value carries
// kind-specific detail (the offending byte, computed CRC, frame, etc.)
// and may be nil.
type Error struct {
	Kind  Kind
	Value interface{}
	Err   error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Value != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Value)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newErr(kind Kind, value interface{}) *Error {
	return &Error{Kind: kind, Value: value}
}

func wrapErr(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Sentinel kind markers for errors.Is comparisons against a bare kind.
func KindOf(kind Kind) *Error {
	return &Error{Kind: kind}
}
