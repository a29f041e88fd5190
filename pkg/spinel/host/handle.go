package host

import (
	"context"

	"github.com/twine-rs/spinel-go/pkg/spinel"
)

// Handle is a cheap-to-clone client-side façade over an Actor. It
// owns only the actor reference (effectively the request channel);
// copying a Handle is always safe.
type Handle struct {
	actor *Actor
}

// Noop pings the device and verifies it replies with LastStatus=Ok.
func (h *Handle) Noop(ctx context.Context) error {
	frame, err := h.actor.sendRequest(ctx, spinel.NewNoop(), false)
	if err != nil {
		return err
	}
	v, ok := frame.LastStatus()
	if !ok {
		return &spinel.Error{Kind: spinel.KindUnexpectedResponse, Value: frame}
	}
	if spinel.IsResetReasonRange(v) {
		return &spinel.Error{Kind: spinel.KindUnexpectedResponse, Value: frame}
	}
	if v > 0xFF {
		return &spinel.Error{Kind: spinel.KindStatus, Value: v}
	}
	status, err := spinel.StatusFromU8(uint8(v))
	if err != nil {
		return err
	}
	if status != spinel.StatusOk {
		return &spinel.Error{Kind: spinel.KindStatus, Value: status}
	}
	return nil
}

// Reset sends a Reset command. It is fire-and-forget at the TID
// layer: success means the transmit succeeded, not that the device
// has reset yet — observe that via SubscribeReset.
func (h *Handle) Reset(ctx context.Context) error {
	_, err := h.actor.sendRequest(ctx, spinel.NewReset(), true)
	return err
}

// LastStatus reads the raw LastStatus payload.
func (h *Handle) LastStatus(ctx context.Context) (uint32, error) {
	frame, err := h.actor.sendRequest(ctx, spinel.NewPropertyValueGet(spinel.LastStatus), false)
	if err != nil {
		return 0, err
	}
	v, ok := frame.LastStatus()
	if !ok {
		return 0, &spinel.Error{Kind: spinel.KindUnexpectedResponse, Value: frame}
	}
	return v, nil
}

// ControllerVersion fetches the NCP's version string payload.
func (h *Handle) ControllerVersion(ctx context.Context) ([]byte, error) {
	frame, err := h.actor.sendRequest(ctx, spinel.NewPropertyValueGet(spinel.NcpVersion), false)
	if err != nil {
		return nil, err
	}
	if frame.Command.Kind != spinel.CommandPropertyValueIs || frame.Command.Property.Kind != spinel.PropertyNcpVersion {
		return nil, &spinel.Error{Kind: spinel.KindUnexpectedResponse, Value: frame}
	}
	return frame.Command.Payload, nil
}

// SubscribeReset returns a receiver of reset-notification frames and
// an unsubscribe function.
func (h *Handle) SubscribeReset() (<-chan spinel.Frame, func()) {
	return h.actor.resetBus.subscribe()
}

// SubscribeDebug returns a receiver of Stream(Debug) frames.
func (h *Handle) SubscribeDebug() (<-chan spinel.Frame, func()) {
	return h.actor.debugBus.subscribe()
}

// SubscribeNet returns a receiver of Stream(Net) frames.
func (h *Handle) SubscribeNet() (<-chan spinel.Frame, func()) {
	return h.actor.netBus.subscribe()
}

// SubscribeNetInsecure returns a receiver of Stream(NetInsecure) frames.
func (h *Handle) SubscribeNetInsecure() (<-chan spinel.Frame, func()) {
	return h.actor.netInsecureBus.subscribe()
}

// SubscribeLog returns a receiver of Stream(Log) frames.
func (h *Handle) SubscribeLog() (<-chan spinel.Frame, func()) {
	return h.actor.logBus.subscribe()
}

// Close stops the underlying actor.
func (h *Handle) Close() error {
	return h.actor.Close()
}
