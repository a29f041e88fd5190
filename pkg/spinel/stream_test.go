package spinel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamNeedsMoreBytes(t *testing.T) {
	s := NewStream()
	s.Push([]byte{0x01, 0x02, 0x03})
	_, ok, err := s.Next()
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestStreamDecodesOneFrameAtATime(t *testing.T) {
	f1 := NewFrame(NewHeader(0, 1), NewNoop())
	f2 := NewFrame(NewHeader(0, 2), NewPropertyValueGet(NcpVersion))
	enc1, err := EncodeHDLC(f1)
	assert.NoError(t, err)
	enc2, err := EncodeHDLC(f2)
	assert.NoError(t, err)

	s := NewStream()
	s.Push(enc1)
	s.Push(enc2)

	got1, ok, err := s.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, f1.Header, got1.Header)

	got2, ok, err := s.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, f2.Header, got2.Header)

	_, ok, err = s.Next()
	assert.False(t, ok)
	assert.NoError(t, err)
}

// TestStreamNeverStallsOnBadFrame is the framer-level rendition of the
// resynchronisation invariant: a corrupted frame followed by a good
// one must not prevent the good frame from being delivered.
func TestStreamNeverStallsOnBadFrame(t *testing.T) {
	bad := []byte{0x7E, 0x81, 0x00, 0x53, 0x00, 0x7E} // corrupted CRC
	good := NewFrame(NewHeader(0, 2), NewNoop())
	goodEnc, err := EncodeHDLC(good)
	assert.NoError(t, err)

	s := NewStream()
	s.Push(bad)
	s.Push(goodEnc)

	_, ok, err := s.Next()
	assert.False(t, ok)
	assert.Error(t, err)

	frame, ok, err := s.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, good.Header, frame.Header)
}
