package stream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
)

func TestInterleaveStereoOrdersLeftRight(t *testing.T) {
	buf := audiobuf.New(2)
	buf.Channel(audiobuf.Left)[0] = 1
	buf.Channel(audiobuf.Left)[1] = 2
	buf.Channel(audiobuf.Right)[0] = 3
	buf.Channel(audiobuf.Right)[1] = 4

	dst := make([]float32, 4)
	interleaveStereo(buf, dst)

	assert.Equal(t, []float32{1, 3, 2, 4}, dst)
}

func TestEncodeReturnsImmediatelyWhenClosedWithNoData(t *testing.T) {
	s := NewHttpStream(48000)
	s.Close()

	var out bytes.Buffer
	err := s.Encode(&out)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestEncodeDrainsBufferedAudioThenReturnsOnClose(t *testing.T) {
	s := NewHttpStream(48000)

	block := audiobuf.New(512)
	left := block.Channel(audiobuf.Left)
	right := block.Channel(audiobuf.Right)
	for i := range left {
		left[i] = 0.1
		right[i] = -0.1
	}

	// four 512-sample blocks comfortably exceed one 480-sample Opus frame.
	for i := 0; i < 4; i++ {
		s.PushAudioBuffer(block)
	}
	s.Close()

	var out bytes.Buffer
	err := s.Encode(&out)
	require.NoError(t, err)
	assert.Greater(t, out.Len(), 0)
}

func TestPendingPCMWriteRejectsOverrun(t *testing.T) {
	p := newPendingPCM(4)
	assert.True(t, p.write([]float32{1, 2, 3, 4}))
	assert.False(t, p.write([]float32{5}))
}

func TestPendingPCMReadFollowsWriteOrderAcrossWrap(t *testing.T) {
	p := newPendingPCM(4)
	require.True(t, p.write([]float32{1, 2, 3}))

	out := make([]float32, 2)
	p.read(out)
	assert.Equal(t, []float32{1, 2}, out)

	require.True(t, p.write([]float32{4, 5})) // wraps past the end of data
	out = make([]float32, 3)
	p.read(out)
	assert.Equal(t, []float32{3, 4, 5}, out)
}

func TestPushAudioBufferAfterOverrunDoesNotBlock(t *testing.T) {
	s := NewHttpStream(48000)
	block := audiobuf.New(512)

	// Push far more than the write-ahead buffer can hold; overruns must be
	// dropped, never block the caller.
	for i := 0; i < 10000; i++ {
		s.PushAudioBuffer(block)
	}
}
