package host

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twine-rs/spinel-go/pkg/spinel"
)

// pipeTransport is an in-memory io.ReadWriteCloser backed by two
// io.Pipes, standing in for a real serial port in tests.
type pipeTransport struct {
	r *io.PipeReader
	w *io.PipeWriter

	peerR *io.PipeReader
	peerW *io.PipeWriter
}

func newPipeTransport() (*pipeTransport, *pipeTransport) {
	r1, w1 := io.Pipe()
	r2, w2 := io.Pipe()
	a := &pipeTransport{r: r1, w: w2, peerR: r2, peerW: w1}
	b := &pipeTransport{r: r2, w: w1, peerR: r1, peerW: w2}
	return a, b
}

func (p *pipeTransport) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipeTransport) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *pipeTransport) Close() error {
	p.r.Close()
	return p.w.Close()
}

// ncpSim plays the role of the device side: it reads frames the actor
// sends and can push arbitrary frames back.
type ncpSim struct {
	t  *testing.T
	tr *pipeTransport
}

func (n *ncpSim) recv() spinel.Frame {
	stream := spinel.NewStream()
	buf := make([]byte, 256)
	for {
		nRead, err := n.tr.Read(buf)
		require.NoError(n.t, err)
		stream.Push(buf[:nRead])
		if f, ok, err := stream.Next(); ok {
			require.NoError(n.t, err)
			return f
		}
	}
}

func (n *ncpSim) send(f spinel.Frame) {
	raw, err := spinel.EncodeHDLC(f)
	require.NoError(n.t, err)
	_, err = n.tr.Write(raw)
	require.NoError(n.t, err)
}

func TestNoopSuccess(t *testing.T) {
	hostSide, ncpSide := newPipeTransport()
	handle := NewActor(hostSide, 0, nil)
	sim := &ncpSim{t: t, tr: ncpSide}

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		done <- handle.Noop(ctx)
	}()

	req := sim.recv()
	assert.Equal(t, uint8(1), req.Header.TID)
	assert.Equal(t, spinel.CommandNoop, req.Command.Kind)

	statusPayload, err := spinel.EncodePackedU32(nil, uint32(spinel.StatusOk))
	require.NoError(t, err)
	sim.send(spinel.NewFrame(spinel.NewHeader(0, req.Header.TID), spinel.NewPropertyValueIs(spinel.LastStatus, statusPayload)))

	require.NoError(t, <-done)
}

func TestTIDMonotonicity(t *testing.T) {
	hostSide, ncpSide := newPipeTransport()
	handle := NewActor(hostSide, 0, nil)
	sim := &ncpSim{t: t, tr: ncpSide}

	var gotTIDs []uint8
	for i := 0; i < 17; i++ {
		done := make(chan error, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			done <- handle.Noop(ctx)
		}()
		req := sim.recv()
		gotTIDs = append(gotTIDs, req.Header.TID)

		statusPayload, _ := spinel.EncodePackedU32(nil, uint32(spinel.StatusOk))
		sim.send(spinel.NewFrame(spinel.NewHeader(0, req.Header.TID), spinel.NewPropertyValueIs(spinel.LastStatus, statusPayload)))
		require.NoError(t, <-done)
	}

	want := []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 1, 2}
	assert.Equal(t, want, gotTIDs)
}

func TestResetRestartsTIDSequence(t *testing.T) {
	hostSide, ncpSide := newPipeTransport()
	handle := NewActor(hostSide, 0, nil)
	sim := &ncpSim{t: t, tr: ncpSide}

	resetCh, unsub := handle.SubscribeReset()
	defer unsub()

	// Drive one normal transaction at TID=1.
	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		done <- handle.Noop(ctx)
	}()
	req := sim.recv()
	assert.Equal(t, uint8(1), req.Header.TID)
	statusPayload, _ := spinel.EncodePackedU32(nil, uint32(spinel.StatusOk))
	sim.send(spinel.NewFrame(spinel.NewHeader(0, req.Header.TID), spinel.NewPropertyValueIs(spinel.LastStatus, statusPayload)))
	require.NoError(t, <-done)

	// Now simulate a device reset notification on TID=0.
	resetPayload, _ := spinel.EncodePackedU32(nil, uint32(spinel.ResetPowerOn))
	sim.send(spinel.NewFrame(spinel.NewHeader(0, 0), spinel.NewPropertyValueIs(spinel.LastStatus, resetPayload)))

	select {
	case f := <-resetCh:
		v, ok := f.LastStatus()
		require.True(t, ok)
		assert.True(t, spinel.IsResetReasonRange(v))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reset broadcast")
	}

	// The next allocated TID must restart at 1.
	done2 := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		done2 <- handle.Noop(ctx)
	}()
	req2 := sim.recv()
	assert.Equal(t, uint8(1), req2.Header.TID)
	statusPayload2, _ := spinel.EncodePackedU32(nil, uint32(spinel.StatusOk))
	sim.send(spinel.NewFrame(spinel.NewHeader(0, req2.Header.TID), spinel.NewPropertyValueIs(spinel.LastStatus, statusPayload2)))
	require.NoError(t, <-done2)
}

func TestDispatchPartitioningTIDZeroNeverCompletesRequest(t *testing.T) {
	hostSide, ncpSide := newPipeTransport()
	handle := NewActor(hostSide, 0, nil)
	sim := &ncpSim{t: t, tr: ncpSide}

	debugCh, unsub := handle.SubscribeDebug()
	defer unsub()

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		done <- handle.Noop(ctx)
	}()
	req := sim.recv()
	assert.Equal(t, uint8(1), req.Header.TID)

	// Send an unrelated TID=0 debug broadcast first.
	sim.send(spinel.NewFrame(spinel.NewHeader(0, 0), spinel.NewPropertyValueIs(spinel.NewStreamProperty(spinel.StreamDebug), []byte("hello"))))

	select {
	case f := <-debugCh:
		assert.Equal(t, []byte("hello"), f.Command.Payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for debug broadcast")
	}

	// The pending Noop request must still be waiting (context
	// deadline, not a spurious completion from the TID=0 frame).
	err := <-done
	assert.Error(t, err)
}
