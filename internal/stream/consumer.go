// Package stream implements the fan-out consumers the engine's render loop
// pushes finished blocks to, and the HTTP server that serves them as an Opus
// stream, grounded on HttpStream/HttpServer in the spec and on vst3go's
// host-IO write-ahead buffer for the push/encode handoff.
package stream

import "github.com/liveset-audio/dsp-engine/internal/audiobuf"

// SampleConsumer receives finished render blocks from the engine's DSP
// loop. PushAudioBuffer must never block beyond copying the block; any
// slow work (encoding, network I/O) happens on the consumer's own thread.
type SampleConsumer interface {
	PushAudioBuffer(block *audiobuf.Buffer)
}
