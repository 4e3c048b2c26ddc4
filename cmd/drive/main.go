// Command drive is an interactive terminal driving demo.
//
// Keys: e enters or leaves the car, w a s d or arrows drive, space brakes, r and f tilt,
// i j k l look around, c toggles the soft follow camera, q or Esc quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/akmonengine/drivetrain/camera"
	"github.com/akmonengine/drivetrain/config"
	"github.com/akmonengine/drivetrain/logging"
	"github.com/akmonengine/drivetrain/sim"
	"github.com/akmonengine/drivetrain/telemetry"
	"github.com/akmonengine/drivetrain/vehicle"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configDir := flag.String("config", ".", "directory holding drivetrain.yaml")
	flag.Parse()

	if err := run(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "drive: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	settings, err := config.LoadSettings(configDir)
	if err != nil {
		return err
	}

	var outputs []string
	if settings.Log.File != "" {
		outputs = []string{settings.Log.File}
	}
	logger, err := logging.New(logging.Options{
		Level:       settings.Log.Level,
		Encoding:    settings.Log.Encoding,
		OutputPaths: outputs,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tuning := config.DefaultTuning()
	if settings.TuningPath != "" {
		tuning, err = config.LoadTuning(settings.TuningPath)
		if err != nil {
			return err
		}
	}
	tuning.Vehicle.Scale *= settings.Scale
	tuning.Camera.SoftFollow = tuning.Camera.SoftFollow || settings.SoftFollow
	if err := tuning.Validate(); err != nil {
		return err
	}

	scene := newScene(tuning.Vehicle.Scale)
	events := vehicle.NewEvents()
	logging.AttachVehicleTrace(logger, events)

	car := vehicle.NewController(scene.world, scene.world.Handle(scene.chassis), tuning.Vehicle)
	car.SetEvents(events)
	cam := camera.NewController(scene.world, tuning.Camera, nil)

	options := []sim.Option{sim.WithLogger(logger)}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return err
	}
	options = append(options, sim.WithMetrics(metrics))

	if settings.Telemetry.Enabled {
		recorder, err := telemetry.Open(settings.Telemetry.Path)
		if err != nil {
			return err
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				logger.Error("closing telemetry", zap.Error(err))
			}
		}()

		var encoded strings.Builder
		if err := config.EncodeTuning(&encoded, tuning); err != nil {
			return err
		}
		session, err := recorder.Start(float64(settings.TickRate), encoded.String())
		if err != nil {
			return err
		}
		logger.Info("telemetry session started", zap.String("session", session), zap.String("path", settings.Telemetry.Path))
		options = append(options, sim.WithRecorder(recorder, settings.Telemetry.Every))
	}

	host := sim.NewHost(scene.world, car, cam, settings.TickInterval().Seconds(), options...)

	var watcher *config.Watcher
	if settings.TuningPath != "" && settings.WatchTuning {
		watcher, err = config.NewWatcher(settings.TuningPath)
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		screen:   screen,
		host:     host,
		scene:    scene,
		settings: settings,
		logger:   logger,
		watcher:  watcher,
		keys:     make(keyState),
	}

	logger.Info("drive started",
		zap.Int("tickRate", settings.TickRate),
		zap.Int("frameRate", settings.FrameRate),
		zap.Float64("scale", tuning.Vehicle.Scale),
	)

	return serve(ctx, screen, 64, a.run)
}

// eventSource is the part of tcell.Screen the event pump uses.
type eventSource interface {
	PollEvent() tcell.Event
	Fini()
}

// serve pumps terminal events into run until run returns, the context ends or the terminal closes.
// The pump is released as soon as run returns, even when nobody drains the events any more.
func serve(ctx context.Context, screen eventSource, buffer int, run func(context.Context, <-chan tcell.Event) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, buffer)

	g.Go(func() error {
		for {
			// PollEvent returns nil once the screen is finalized
			ev := screen.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		defer screen.Fini()
		return run(ctx, events)
	})

	return g.Wait()
}
