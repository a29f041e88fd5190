// Package transport provides the serial-port byte transport the
// spinel host actor drives. It wraps github.com/tarm/serial, the way
// the teacher's usock package wraps the same library for its own
// UART link.
package transport

import (
	"io"

	"github.com/tarm/serial"
)

// SerialTransport is an io.ReadWriteCloser backed by a serial port.
type SerialTransport struct {
	port *serial.Port
}

// FlowControl is accepted for forward compatibility with firmware
// that expects a handshake to be negotiated out of band; tarm/serial
// has no flow-control knob, so Open accepts it but neither applies it
// to the port nor records it.
type FlowControl string

const (
	FlowControlNone FlowControl = "none"
	FlowControlRTSCTS FlowControl = "rtscts"
)

// Open opens path at baud with 8N1 framing. It first opens and closes
// the port at a low throwaway baud rate to clear stale UART
// attributes left by a previous owner, mirroring the teacher's
// clearUARTAttributes step, then reopens at the requested baud.
func Open(path string, baud int, flow FlowControl) (*SerialTransport, error) {
	if err := clearUARTAttributes(path); err != nil {
		return nil, err
	}
	cfg := &serial.Config{
		Name:        path,
		Baud:        baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: 0,
	}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	return &SerialTransport{port: port}, nil
}

func clearUARTAttributes(path string) error {
	cfg := &serial.Config{Name: path, Baud: 9600}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return err
	}
	return port.Close()
}

func (s *SerialTransport) Read(p []byte) (int, error)  { return s.port.Read(p) }
func (s *SerialTransport) Write(p []byte) (int, error) { return s.port.Write(p) }
func (s *SerialTransport) Close() error                { return s.port.Close() }

var _ io.ReadWriteCloser = (*SerialTransport)(nil)
