// Package host implements the Spinel host connection actor: a
// single-owner goroutine that serialises transactions over a
// full-duplex transport, allocates transaction identifiers, and fans
// out device-initiated broadcasts to subscribers.
package host

import (
	"context"
	"io"
	"log"

	"github.com/twine-rs/spinel-go/pkg/spinel"
)

const tidStart uint8 = 1
const tidMax uint8 = 15

// Metrics is the set of observability hooks the actor reports
// through. A nil Metrics is valid; every method is a no-op then.
type Metrics interface {
	FrameSent()
	FrameReceived()
	CRCError()
	Resync()
	BroadcastDropped(busName string)
	PendingRequests(n int)
}

type request struct {
	cmd      spinel.Command
	tidless  bool // true for Reset: fire-and-forget, no pending entry
	reply    chan replyMsg
}

type replyMsg struct {
	frame spinel.Frame
	err   error
}

// Actor owns the transport exclusively and runs the event loop
// described in the component design: it multiplexes client requests
// against inbound frames, classifying TID=0 frames as broadcasts and
// routing TID!=0 frames to their pending awaiter.
type Actor struct {
	transport io.ReadWriteCloser
	iid       uint8
	metrics   Metrics

	reqCh   chan request
	closeCh chan struct{}

	tid     uint8
	pending [16]chan replyMsg // index by TID; 0 unused

	resetBus       *bus
	debugBus       *bus
	netBus         *bus
	netInsecureBus *bus
	logBus         *bus
}

// NewActor constructs and starts an Actor reading/writing transport.
// The returned Handle is the only supported way to interact with it.
func NewActor(transport io.ReadWriteCloser, iid uint8, metrics Metrics) *Handle {
	a := &Actor{
		transport: transport,
		iid:       iid,
		metrics:   metrics,
		reqCh:     make(chan request),
		closeCh:   make(chan struct{}),
		tid:       tidStart,
	}
	a.resetBus = newBus(func() { a.dropped("reset") })
	a.debugBus = newBus(func() { a.dropped("debug") })
	a.netBus = newBus(func() { a.dropped("net") })
	a.netInsecureBus = newBus(func() { a.dropped("net_insecure") })
	a.logBus = newBus(func() { a.dropped("log") })

	frameCh := make(chan spinel.Frame)
	go a.readLoop(frameCh)
	go a.run(frameCh)

	return &Handle{actor: a}
}

func (a *Actor) dropped(busName string) {
	if a.metrics != nil {
		a.metrics.BroadcastDropped(busName)
	}
}

// readLoop reads bytes from the transport, feeds them through the
// HDLC stream decoder, and forwards decoded frames to frameCh. It
// never stalls on a malformed frame.
func (a *Actor) readLoop(frameCh chan<- spinel.Frame) {
	stream := spinel.NewStream()
	buf := make([]byte, 4096)
	for {
		n, err := a.transport.Read(buf)
		if err != nil {
			if err != io.EOF {
				log.Printf("spinel: transport read error: %v", err)
			}
			close(frameCh)
			return
		}
		if n == 0 {
			continue
		}
		stream.Push(buf[:n])
		for {
			frame, ok, decErr := stream.Next()
			if decErr != nil {
				if a.metrics != nil {
					if e, isErr := decErr.(*spinel.Error); isErr && e.Kind == spinel.KindHdlcChecksum {
						a.metrics.CRCError()
					}
					a.metrics.Resync()
				}
				continue
			}
			if !ok {
				break
			}
			if a.metrics != nil {
				a.metrics.FrameReceived()
			}
			select {
			case frameCh <- frame:
			case <-a.closeCh:
				return
			}
		}
	}
}

// run is the actor's single event loop: it concurrently awaits either
// a client request or an inbound decoded frame.
func (a *Actor) run(frameCh <-chan spinel.Frame) {
	for {
		select {
		case req, ok := <-a.reqCh:
			if !ok {
				close(a.closeCh)
				return
			}
			a.handleRequest(req)
		case frame, ok := <-frameCh:
			if !ok {
				return
			}
			a.dispatch(frame)
		}
	}
}

func (a *Actor) handleRequest(req request) {
	if req.tidless {
		// Reset: TID=0 semantics, fire-and-forget.
		frame := spinel.NewFrame(spinel.NewHeader(a.iid, 0), req.cmd)
		raw, err := spinel.EncodeHDLC(frame)
		if err != nil {
			req.reply <- replyMsg{err: &spinel.Error{Kind: spinel.KindHostConnectionSend, Err: err}}
			return
		}
		if _, err := a.transport.Write(raw); err != nil {
			req.reply <- replyMsg{err: &spinel.Error{Kind: spinel.KindHostConnectionSend, Err: err}}
			return
		}
		if a.metrics != nil {
			a.metrics.FrameSent()
		}
		req.reply <- replyMsg{}
		return
	}

	tid, err := a.allocateTID()
	if err != nil {
		req.reply <- replyMsg{err: err}
		return
	}
	frame := spinel.NewFrame(spinel.NewHeader(a.iid, tid), req.cmd)
	raw, err := spinel.EncodeHDLC(frame)
	if err != nil {
		req.reply <- replyMsg{err: &spinel.Error{Kind: spinel.KindHostConnectionSend, Err: err}}
		return
	}
	if _, err := a.transport.Write(raw); err != nil {
		req.reply <- replyMsg{err: &spinel.Error{Kind: spinel.KindHostConnectionSend, Err: err}}
		return
	}
	if a.metrics != nil {
		a.metrics.FrameSent()
	}
	a.pending[tid] = req.reply
	a.reportPending()
}

// allocateTID finds the next free slot in the cyclic 1..15 sequence,
// refusing with Busy once all 15 are occupied (Open Question #1,
// policy (a), chosen for determinism).
func (a *Actor) allocateTID() (uint8, error) {
	start := a.tid
	for {
		candidate := a.tid
		a.advanceTID()
		if a.pending[candidate] == nil {
			return candidate, nil
		}
		if a.tid == start {
			return 0, spinel.KindOf(spinel.KindBusy)
		}
	}
}

func (a *Actor) advanceTID() {
	a.tid++
	if a.tid > tidMax {
		a.tid = tidStart
	}
}

func (a *Actor) reportPending() {
	if a.metrics == nil {
		return
	}
	n := 0
	for _, p := range a.pending {
		if p != nil {
			n++
		}
	}
	a.metrics.PendingRequests(n)
}

// dispatch classifies a decoded inbound frame per the component
// design: TID=0 frames are broadcasts (further classified by
// command), TID!=0 frames complete a pending request or are logged as
// stray responses.
func (a *Actor) dispatch(frame spinel.Frame) {
	if frame.Header.TID == 0 {
		a.dispatchBroadcast(frame)
		return
	}
	tid := frame.Header.TID
	if tid > tidMax {
		log.Printf("spinel: inbound frame with out-of-range tid %d", tid)
		return
	}
	sink := a.pending[tid]
	if sink == nil {
		log.Printf("spinel: stray response for tid %d", tid)
		return
	}
	a.pending[tid] = nil
	a.reportPending()
	select {
	case sink <- replyMsg{frame: frame}:
	default:
		// Awaiter already gave up; discard silently.
	}
}

func (a *Actor) dispatchBroadcast(frame spinel.Frame) {
	if v, ok := frame.LastStatus(); ok && spinel.IsResetReasonRange(v) {
		a.resetTID()
		a.resetBus.publish(frame)
		return
	}
	if frame.Command.Kind == spinel.CommandPropertyValueIs && frame.Command.Property.Kind == spinel.PropertyStreamKind {
		switch frame.Command.Property.Stream {
		case spinel.StreamDebug:
			a.debugBus.publish(frame)
		case spinel.StreamNet:
			a.netBus.publish(frame)
		case spinel.StreamNetInsecure:
			a.netInsecureBus.publish(frame)
		case spinel.StreamLog:
			a.logBus.publish(frame)
		}
		return
	}
	log.Printf("spinel: unrecognised tid=0 frame, dropping: %+v", frame)
}

// resetTID clears the pending table and restarts TID allocation at 1,
// per the reset-notification handling rule. Pending awaiters observe
// their reply channel closed, which Handle maps to HostConnectionRecv.
func (a *Actor) resetTID() {
	for i, sink := range a.pending {
		if sink != nil {
			close(sink)
			a.pending[i] = nil
		}
	}
	a.tid = tidStart
	a.reportPending()
}

// sendRequest is used by Handle to submit a transactional request and
// block for its reply, honouring ctx cancellation.
func (a *Actor) sendRequest(ctx context.Context, cmd spinel.Command, tidless bool) (spinel.Frame, error) {
	reply := make(chan replyMsg, 1)
	select {
	case a.reqCh <- request{cmd: cmd, tidless: tidless, reply: reply}:
	case <-ctx.Done():
		return spinel.Frame{}, ctx.Err()
	}
	select {
	case msg, ok := <-reply:
		if !ok {
			return spinel.Frame{}, &spinel.Error{Kind: spinel.KindHostConnectionRecv}
		}
		return msg.frame, msg.err
	case <-ctx.Done():
		return spinel.Frame{}, ctx.Err()
	}
}

// Close stops the actor at its next idle point and closes the
// transport.
func (a *Actor) Close() error {
	close(a.reqCh)
	return a.transport.Close()
}
