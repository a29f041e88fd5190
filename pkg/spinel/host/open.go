package host

import (
	"context"
	"io"

	"github.com/twine-rs/spinel-go/pkg/transport"
)

// Open starts an actor over an already-open transport and returns its
// public Handle.
func Open(t io.ReadWriteCloser, iid uint8, metrics Metrics) *Handle {
	return NewActor(t, iid, metrics)
}

// OpenSerial is the convenience constructor named in the external
// interfaces: it opens the named serial device and starts an actor
// over it. ctx is checked before opening the port; it has no effect
// on the actor's subsequent lifetime.
func OpenSerial(ctx context.Context, path string, baud int, iid uint8, metrics Metrics) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := transport.Open(path, baud, transport.FlowControlNone)
	if err != nil {
		return nil, err
	}
	return Open(t, iid, metrics), nil
}
