package ingress

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hypebeast/go-osc/osc"

	"github.com/liveset-audio/dsp-engine/internal/track"
)

// OSC addresses a detached live-coding frontend targets; each maps onto
// one Ingress operation.
const (
	addressTracksSetup = "/engine/tracks/setup"
	addressTracksGet   = "/engine/tracks/get"
	addressMidiPush    = "/engine/midi/push"
	addressSnapshot    = "/engine/tracks/snapshot"
)

// OSCServer dispatches incoming OSC messages onto Ingress, grounded on
// schollz-221e's dispatcher-per-address pattern (main.go's
// osc.NewStandardDispatcher/AddMsgHandler). OSC carries no reply framing
// of its own, so tracks/setup and tracks/get results are pushed back to a
// configured reply client as a /engine/tracks/snapshot message rather than
// returned synchronously.
type OSCServer struct {
	ingress *Ingress
	client  *osc.Client
	server  *osc.Server
	logger  *slog.Logger
}

// NewOSCServer builds a server bound to addr. If replyHost is non-empty, a
// client is created to push snapshot replies there.
func NewOSCServer(addr, replyHost string, replyPort int, ingress *Ingress, logger *slog.Logger) *OSCServer {
	s := &OSCServer{ingress: ingress, logger: logger}
	if replyHost != "" {
		s.client = osc.NewClient(replyHost, replyPort)
	}

	d := osc.NewStandardDispatcher()
	d.AddMsgHandler(addressTracksSetup, s.handleTracksSetup)
	d.AddMsgHandler(addressTracksGet, s.handleTracksGet)
	d.AddMsgHandler(addressMidiPush, s.handleMidiPush)

	s.server = &osc.Server{Addr: addr, Dispatcher: d}
	return s
}

// ListenAndServe blocks serving OSC messages until the listener errors.
func (s *OSCServer) ListenAndServe() error {
	return s.server.ListenAndServe()
}

func (s *OSCServer) handleTracksSetup(msg *osc.Message) {
	specs, err := decodeTracksArg(msg)
	if err != nil {
		s.logger.Warn("osc tracks/setup: decode failed", "err", err)
		return
	}
	s.replyTracks(s.ingress.SetupTracks(specs))
}

func (s *OSCServer) handleTracksGet(*osc.Message) {
	s.replyTracks(s.ingress.GetTracks())
}

func (s *OSCServer) handleMidiPush(msg *osc.Message) {
	if len(msg.Arguments) < 2 {
		s.logger.Warn("osc midi/push: expected track_id and data arguments")
		return
	}
	trackID, ok := msg.Arguments[0].(int32)
	if !ok {
		s.logger.Warn("osc midi/push: track_id argument not an int32")
		return
	}
	data, ok := msg.Arguments[1].([]byte)
	if !ok {
		s.logger.Warn("osc midi/push: data argument not a blob")
		return
	}

	if _, err := s.ingress.PushMidiEvents(PushMidiEventsRequest{TrackID: int(trackID), Data: data}); err != nil {
		s.logger.Warn("osc midi/push: rejected", "err", err)
	}
}

func decodeTracksArg(msg *osc.Message) ([]track.Settings, error) {
	if len(msg.Arguments) != 1 {
		return nil, fmt.Errorf("expected one JSON string argument, got %d", len(msg.Arguments))
	}
	raw, ok := msg.Arguments[0].(string)
	if !ok {
		return nil, fmt.Errorf("argument is not a string")
	}
	var specs []track.Settings
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func (s *OSCServer) replyTracks(specs []track.Settings) {
	if s.client == nil {
		return
	}
	payload, err := json.Marshal(specs)
	if err != nil {
		s.logger.Warn("osc reply: marshal tracks failed", "err", err)
		return
	}
	msg := osc.NewMessage(addressSnapshot)
	msg.Append(string(payload))
	if err := s.client.Send(msg); err != nil {
		s.logger.Warn("osc reply: send failed", "err", err)
	}
}
