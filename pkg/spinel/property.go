package spinel

// PropertyStream enumerates the four asynchronous stream properties.
type PropertyStream int

const (
	StreamDebug PropertyStream = iota
	StreamNet
	StreamNetInsecure
	StreamLog
)

func (s PropertyStream) id() uint32 {
	switch s {
	case StreamDebug:
		return 0x70
	case StreamNet:
		return 0x71
	case StreamNetInsecure:
		return 0x73
	case StreamLog:
		return 0x74
	default:
		return 0
	}
}

func (s PropertyStream) String() string {
	switch s {
	case StreamDebug:
		return "Debug"
	case StreamNet:
		return "Net"
	case StreamNetInsecure:
		return "NetInsecure"
	case StreamLog:
		return "Log"
	default:
		return "Unknown"
	}
}

// PropertyKind tags the Property variant.
type PropertyKind int

const (
	PropertyLastStatus PropertyKind = iota
	PropertyProtocolVersion
	PropertyNcpVersion
	PropertyInterfaceType
	PropertyStreamKind
)

// Property is a Spinel property identifier: either one of the four
// scalar properties, or one of the four Stream sub-properties.
type Property struct {
	Kind   PropertyKind
	Stream PropertyStream
}

var (
	LastStatus      = Property{Kind: PropertyLastStatus}
	ProtocolVersion = Property{Kind: PropertyProtocolVersion}
	NcpVersion      = Property{Kind: PropertyNcpVersion}
	InterfaceType   = Property{Kind: PropertyInterfaceType}
)

// NewStreamProperty builds a Property wrapping the given stream.
func NewStreamProperty(s PropertyStream) Property {
	return Property{Kind: PropertyStreamKind, Stream: s}
}

// ID returns the property's wire identifier.
func (p Property) ID() uint32 {
	switch p.Kind {
	case PropertyLastStatus:
		return 0x00
	case PropertyProtocolVersion:
		return 0x01
	case PropertyNcpVersion:
		return 0x02
	case PropertyInterfaceType:
		return 0x03
	case PropertyStreamKind:
		return p.Stream.id()
	default:
		return 0
	}
}

func (p Property) String() string {
	switch p.Kind {
	case PropertyLastStatus:
		return "LastStatus"
	case PropertyProtocolVersion:
		return "ProtocolVersion"
	case PropertyNcpVersion:
		return "NcpVersion"
	case PropertyInterfaceType:
		return "InterfaceType"
	case PropertyStreamKind:
		return "Stream(" + p.Stream.String() + ")"
	default:
		return "Unknown"
	}
}

// PropertyFromID maps a wire id to a known Property, or
// UnknownProperty.
func PropertyFromID(id uint32) (Property, error) {
	switch id {
	case 0x00:
		return LastStatus, nil
	case 0x01:
		return ProtocolVersion, nil
	case 0x02:
		return NcpVersion, nil
	case 0x03:
		return InterfaceType, nil
	case 0x70:
		return NewStreamProperty(StreamDebug), nil
	case 0x71:
		return NewStreamProperty(StreamNet), nil
	case 0x73:
		return NewStreamProperty(StreamNetInsecure), nil
	case 0x74:
		return NewStreamProperty(StreamLog), nil
	default:
		return Property{}, newErr(KindUnknownProperty, id)
	}
}

// DecodeProperty reads a packed property id from the start of b,
// returning the Property and bytes consumed.
func DecodeProperty(b []byte) (Property, int, error) {
	id, n, err := DecodePackedU32(b)
	if err != nil {
		return Property{}, 0, err
	}
	p, err := PropertyFromID(id)
	if err != nil {
		return Property{}, 0, err
	}
	return p, n, nil
}
