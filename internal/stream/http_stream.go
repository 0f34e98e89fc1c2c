package stream

import (
	"io"
	"sync"

	"github.com/thesyncim/gopus"

	"github.com/liveset-audio/dsp-engine/internal/audiobuf"
)

// frameSamples is the Opus frame size (per channel, at 48kHz) HttpStream
// encodes: 480 samples is the closest valid Opus frame size to the engine's
// 512-sample render block (10ms vs ~10.7ms), so blocks are accumulated and
// redrawn into frame-sized chunks rather than encoded one-for-one.
const frameSamples = 480

// streamBitrate targets a bitrate high enough that VBR quality is
// effectively unconstrained, standing in for the uncapped "quality 1.0"
// knob a Vorbis encoder would expose (see DESIGN.md, Open Question (d)).
const streamBitrate = 192000

const stereoChannels = 2

// ringCapacitySamples sizes pendingPCM to hold several engine blocks' worth
// of interleaved audio, enough slack that a single slow encode iteration
// doesn't trip an overrun.
const ringCapacitySamples = 16 * 512 * stereoChannels

// pendingPCM is the interleaved-sample ring HttpStream accumulates pushed
// blocks into between Opus frame reads. It carries no locking of its own:
// every call arrives already holding HttpStream.mu.
type pendingPCM struct {
	data    []float32
	writeAt int
	readAt  int
	filled  int
}

func newPendingPCM(capacity int) *pendingPCM {
	return &pendingPCM{data: make([]float32, capacity)}
}

// write appends samples, returning false without copying anything if doing
// so would overrun the ring.
func (p *pendingPCM) write(samples []float32) bool {
	if len(samples) > len(p.data)-p.filled {
		return false
	}
	for _, s := range samples {
		p.data[p.writeAt] = s
		p.writeAt++
		if p.writeAt == len(p.data) {
			p.writeAt = 0
		}
	}
	p.filled += len(samples)
	return true
}

// read fills dst from the ring. The caller must only call this when filled
// covers len(dst).
func (p *pendingPCM) read(dst []float32) {
	for i := range dst {
		dst[i] = p.data[p.readAt]
		p.readAt++
		if p.readAt == len(p.data) {
			p.readAt = 0
		}
	}
	p.filled -= len(dst)
}

// HttpStream implements SampleConsumer. PushAudioBuffer interleaves each
// block into pendingPCM and signals the encode loop, per spec §4.10's
// push/condvar/drain description; Encode waits on that condvar, drains
// fixed-size Opus frames, and writes packets to sink until the stream is
// closed or the encoder errors.
type HttpStream struct {
	mu         sync.Mutex
	cond       *sync.Cond
	pending    *pendingPCM
	sampleRate float64
	closed     bool
	scratch    []float32
}

// NewHttpStream constructs a stream for the given sample rate, stereo only
// (audiobuf.Buffer carries no other channel count).
func NewHttpStream(sampleRate float64) *HttpStream {
	s := &HttpStream{
		pending:    newPendingPCM(ringCapacitySamples),
		sampleRate: sampleRate,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// PushAudioBuffer interleaves block and appends it to pendingPCM, then wakes
// the encode loop. It never blocks: an overrun (the encode side falling
// behind) drops the block instead of stalling the caller.
func (s *HttpStream) PushAudioBuffer(block *audiobuf.Buffer) {
	n := block.Size()

	s.mu.Lock()
	if len(s.scratch) != n*stereoChannels {
		s.scratch = make([]float32, n*stereoChannels)
	}
	interleaveStereo(block, s.scratch)
	s.pending.write(s.scratch)
	s.mu.Unlock()

	s.cond.Signal()
}

// Close marks the stream closed and wakes any blocked Encode call, which
// returns once its remaining buffered samples are drained.
func (s *HttpStream) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Broadcast()
}

// Encode runs the Opus encode loop against sink until Close is called (or
// any remaining data is exhausted after Close) or the encoder errors.
func (s *HttpStream) Encode(sink io.Writer) error {
	enc, err := gopus.NewEncoder(int(s.sampleRate), stereoChannels, gopus.ApplicationAudio)
	if err != nil {
		return err
	}
	if err := enc.SetFrameSize(frameSamples); err != nil {
		return err
	}
	if err := enc.SetBitrateMode(gopus.BitrateModeVBR); err != nil {
		return err
	}
	if err := enc.SetBitrate(streamBitrate); err != nil {
		return err
	}
	enc.SetComplexity(10)

	frame := make([]float32, frameSamples*stereoChannels)

	for {
		s.mu.Lock()
		for s.pending.filled < len(frame) && !s.closed {
			s.cond.Wait()
		}
		if s.pending.filled < len(frame) && s.closed {
			s.mu.Unlock()
			return nil
		}
		s.pending.read(frame)
		s.mu.Unlock()

		packet, err := enc.EncodeFloat32(frame)
		if err != nil {
			return err
		}
		if _, err := sink.Write(packet); err != nil {
			return err
		}
	}
}

func interleaveStereo(block *audiobuf.Buffer, dst []float32) {
	left := block.Channel(audiobuf.Left)
	right := block.Channel(audiobuf.Right)
	for i := range left {
		dst[2*i] = left[i]
		dst[2*i+1] = right[i]
	}
}
