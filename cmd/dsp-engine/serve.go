package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/liveset-audio/dsp-engine/internal/engine"
	"github.com/liveset-audio/dsp-engine/internal/errs"
	"github.com/liveset-audio/dsp-engine/internal/ingress"
	"github.com/liveset-audio/dsp-engine/internal/logging"
	"github.com/liveset-audio/dsp-engine/internal/param"
	"github.com/liveset-audio/dsp-engine/internal/sample"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the render loop, HTTP stream server, and OSC ingress",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := logging.New(cfg.GetStringOr("soir.dsp.log_level", "info"))

	dsn := cfg.GetStringOr("soir.sentry.dsn", "")
	if err := errs.InitReporting(dsn, cfg.GetStringOr("soir.sentry.environment", "production"), cfg.GetStringOr("soir.sentry.release", "")); err != nil {
		logger.Warn("sentry init failed", "err", err)
	}

	sampleDir := cfg.GetStringOr("soir.dsp.sample_directory", "./samples")
	samples, err := sample.Init(sampleDir, engine.SampleRate)
	if err != nil {
		return fmt.Errorf("dsp-engine serve: %w", err)
	}

	controls := param.NewControls()

	httpHost := cfg.GetStringOr("soir.dsp.http.host", "0.0.0.0")
	httpPort := cfg.GetIntOr("soir.dsp.http.port", 7890)

	eng := engine.New(controls, samples, logger, httpHost, httpPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng.Run(ctx)
	if _, err := eng.EnsureHTTPServer(); err != nil {
		eng.Stop()
		return fmt.Errorf("dsp-engine serve: http server: %w", err)
	}

	ing := ingress.New(eng, controls)
	oscAddr := cfg.GetStringOr("soir.dsp.osc.addr", ":9000")
	replyHost := cfg.GetStringOr("soir.dsp.osc.reply_host", "")
	replyPort := cfg.GetIntOr("soir.dsp.osc.reply_port", 9001)
	oscServer := ingress.NewOSCServer(oscAddr, replyHost, replyPort, ing, logger)

	go func() {
		if err := oscServer.ListenAndServe(); err != nil {
			logger.Error("osc server stopped", "err", err)
		}
	}()

	logger.Info("dsp-engine serving",
		"http_addr", fmt.Sprintf("%s:%d", httpHost, httpPort),
		"osc_addr", oscAddr,
		"sample_packs", samples.PackNames(),
	)

	<-ctx.Done()
	logger.Info("shutting down")
	eng.Stop()
	return nil
}
