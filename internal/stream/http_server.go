package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConsumerRegistry is the slice of engine behavior HttpServer needs: a
// place to register and remove the HttpStream it creates per connection.
type ConsumerRegistry interface {
	RegisterConsumer(c SampleConsumer)
	RemoveConsumer(c SampleConsumer)
}

// HttpServer exposes a single streaming endpoint that hands each connecting
// client its own HttpStream, registered with the engine for the lifetime of
// the connection.
type HttpServer struct {
	addr       string
	sampleRate float64
	engine     ConsumerRegistry
	logger     *slog.Logger
	srv        *http.Server
}

// NewHttpServer builds a server bound to host:port, serving audio at the
// given sample rate.
func NewHttpServer(host string, port int, sampleRate float64, engine ConsumerRegistry, logger *slog.Logger) *HttpServer {
	return &HttpServer{
		addr:       fmt.Sprintf("%s:%d", host, port),
		sampleRate: sampleRate,
		engine:     engine,
		logger:     logger,
	}
}

// Start binds the listener and begins serving in the background. It
// returns once the listener is ready to accept connections.
func (s *HttpServer) Start() error {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/stream", s.handleStream)

	s.srv = &http.Server{Addr: s.addr, Handler: router}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	go func() {
		_ = s.srv.Serve(ln)
	}()
	return nil
}

// Stop shuts the server down, waiting for in-flight streams to finish
// draining.
func (s *HttpServer) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *HttpServer) handleStream(c *gin.Context) {
	connID := uuid.New().String()
	hs := NewHttpStream(s.sampleRate)
	s.engine.RegisterConsumer(hs)
	defer s.engine.RemoveConsumer(hs)

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Header("X-Stream-Id", connID)
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	go func() {
		<-ctx.Done()
		hs.Close()
	}()

	s.logger.Info("stream connected", "stream_id", connID, "client_ip", c.ClientIP())
	if err := hs.Encode(c.Writer); err != nil {
		s.logger.Warn("stream encode stopped", "stream_id", connID, "err", err)
	}
	s.logger.Info("stream closed", "stream_id", connID)
}
