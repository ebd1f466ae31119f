// Command stripd runs one LED strip as a daemon: it ticks the animation
// state machine at a fixed rate, pushes frames to the strip over SPI, and
// serves a websocket control/preview surface.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/disquisitioner/LEDControl"
	"github.com/disquisitioner/LEDControl/internal/config"
	"github.com/disquisitioner/LEDControl/internal/ws"
	"github.com/disquisitioner/LEDControl/spi"
)

var (
	configPath = "strip.yaml"
	addr       = ""
	pixels     = 0
	fps        = 0
	simOnly    = false
	verbose    = false
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "path to strip.yaml")
	pflag.StringVar(&addr, "addr", addr, "HTTP listen address (overrides config)")
	pflag.IntVar(&pixels, "pixels", pixels, "strip length in pixels (overrides config)")
	pflag.IntVar(&fps, "fps", fps, "ticks per second (overrides config)")
	pflag.BoolVar(&simOnly, "sim-only", simOnly, "force simulation (no hardware output)")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
}

func main() {
	pflag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if !verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("stripd failed")
	}
}

func run() error {
	cfg := config.Default()
	if c, err := config.Load(configPath); err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("config load failed; using defaults")
	} else {
		cfg = c
	}
	if pixels > 0 {
		cfg.Pixels = pixels
	}
	if fps > 0 {
		cfg.FPS = fps
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if simOnly {
		cfg.SimOnly = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	anim, err := ledcontrol.New(cfg.Pixels)
	if err != nil {
		return err
	}
	if cfg.Start.Mode != "" {
		if err := cfg.Start.Apply(anim); err != nil {
			log.Warn().Err(err).Str("mode", cfg.Start.Mode).Msg("start mode rejected; staying off")
		}
	}

	var driver ws.Driver
	if !cfg.SimOnly {
		r, err := spi.NewRenderer(cfg.Pixels, cfg.SPI.Dev)
		if err != nil {
			return err
		}
		defer r.Halt()
		driver = r
		log.Info().Bool("hardware", r.HW).Str("dev", cfg.SPI.Dev).Msg("strip output ready")
	}

	state := ws.NewState(anim, cfg.FPS, driver)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/frames", state.HandleFramesWS)
	mux.HandleFunc("/ws/control", state.HandleControlWS)
	mux.HandleFunc("/healthz", state.HandleHealth)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().
		Int("pixels", cfg.Pixels).
		Int("fps", cfg.FPS).
		Str("addr", cfg.Addr).
		Str("mode", anim.Mode().String()).
		Msg("stripd starting")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return state.RunRenderLoop(ctx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer shutCancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}
