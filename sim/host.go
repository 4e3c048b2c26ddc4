// Package sim hosts a vehicle and its camera: it runs the vehicle at a fixed step, the camera and
// wheel posing at the render rate, and seats a driver in the vehicle.
package sim

import (
	"context"
	"time"

	"github.com/akmonengine/drivetrain/camera"
	"github.com/akmonengine/drivetrain/config"
	"github.com/akmonengine/drivetrain/telemetry"
	"github.com/akmonengine/drivetrain/vehicle"
	"go.uber.org/zap"
)

// Stepper advances the physics world. It runs after the vehicle tick.
type Stepper interface {
	Step(dt float64)
}

// Controls is the button state collected since the last tick.
type Controls struct {
	Buttons vehicle.Buttons
	// Use is true when the use button was pressed since the last tick
	Use bool
}

type Host struct {
	stepper Stepper
	vehicle *vehicle.Controller
	camera  *camera.Controller

	dt          float64
	accumulator float64
	clock       float64
	tick        uint64

	seat     seat
	controls Controls

	logger      *zap.Logger
	metrics     *telemetry.Metrics
	recorder    *telemetry.Recorder
	recordEvery uint64
}

type Option func(h *Host)

func WithLogger(logger *zap.Logger) Option {
	return func(h *Host) { h.logger = logger }
}

func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(h *Host) { h.metrics = metrics }
}

// WithRecorder records the vehicle every n ticks. The recorder session must be started.
func WithRecorder(recorder *telemetry.Recorder, every int) Option {
	return func(h *Host) {
		h.recorder = recorder
		h.recordEvery = uint64(max(every, 1))
	}
}

// NewHost runs v at a fixed step of dt seconds. cam may be nil for headless hosts.
func NewHost(stepper Stepper, v *vehicle.Controller, cam *camera.Controller, dt float64, options ...Option) *Host {
	h := &Host{
		stepper:     stepper,
		vehicle:     v,
		camera:      cam,
		dt:          dt,
		logger:      zap.NewNop(),
		recordEvery: 1,
	}
	for _, option := range options {
		option(h)
	}
	return h
}

func (h *Host) Vehicle() *vehicle.Controller { return h.vehicle }

func (h *Host) Camera() *camera.Controller { return h.camera }

// Clock is the simulated time, in seconds.
func (h *Host) Clock() float64 { return h.clock }

func (h *Host) Ticks() uint64 { return h.tick }

func (h *Host) Driver() Driver { return h.seat.driver }

// SetControls replaces the buttons held for the next ticks. A use press is kept until a tick consumes it.
func (h *Host) SetControls(controls Controls) {
	controls.Use = controls.Use || h.controls.Use
	h.controls = controls
}

// ApplyTuning swaps the vehicle and camera configs. Call it between ticks.
// The vehicle keeps its scale: the chassis body was built at that size.
func (h *Host) ApplyTuning(tuning config.Tuning) {
	tuning.Vehicle.Scale = h.vehicle.Config().Scale
	h.vehicle.SetConfig(tuning.Vehicle)
	if h.camera != nil {
		h.camera.SetConfig(tuning.Camera)
	}
	h.logger.Info("tuning applied", zap.Float64("scale", tuning.Vehicle.Scale))
}

// Enter seats driver. It fails while the vehicle is occupied, during the cooldown after the last
// driver left, or when the vehicle is gone.
func (h *Host) Enter(driver Driver) bool {
	if driver == nil || !driver.Valid() || !h.seat.canEnter(h.clock) {
		return false
	}
	view := h.vehicle.View()
	if !view.Valid {
		return false
	}

	h.seat.enter(driver)
	h.vehicle.SetDriver(driver.ID())
	h.controls = Controls{}
	if h.camera != nil {
		h.camera.Activate(h.vehicle.View())
	}

	h.logger.Info("driver entered", zap.Uint64("driver", driver.ID()), zap.Float64("clock", h.clock))
	return true
}

// Exit unseats the driver and releases the controls.
func (h *Host) Exit() {
	if !h.seat.occupied() {
		return
	}

	driver := h.seat.exit(h.clock)
	h.vehicle.ResetInput()
	h.vehicle.SetDriver(0)
	h.controls = Controls{}
	if h.camera != nil {
		h.camera.Deactivate()
	}

	h.logger.Info("driver left", zap.Uint64("driver", driver.ID()), zap.Float64("clock", h.clock))
}

// Advance runs floor((carried + elapsed) / dt) ticks and carries the remainder over.
// It returns the number of ticks run.
func (h *Host) Advance(elapsed float64) int {
	if h.dt <= 0 || elapsed <= 0 {
		return 0
	}

	h.accumulator += elapsed
	ticks := 0
	for h.accumulator >= h.dt {
		h.Tick()
		h.accumulator -= h.dt
		ticks++
	}
	return ticks
}

// Tick runs one fixed step: driver input, vehicle, then physics.
func (h *Host) Tick() {
	if h.seat.occupied() {
		h.simulateDriver()
	}

	start := time.Now()
	ran := h.vehicle.Tick(h.dt)
	elapsed := time.Since(start)

	h.stepper.Step(h.dt)
	h.tick++
	h.clock += h.dt

	h.metrics.ObserveTick(context.Background(), ran, h.vehicle.State().Grounded, elapsed)

	if h.recorder != nil && h.tick%h.recordEvery == 0 {
		if err := h.recorder.Record(h.tick, h.clock, h.vehicle.View()); err != nil {
			h.logger.Warn("telemetry record failed", zap.Error(err))
		}
	}
}

func (h *Host) simulateDriver() {
	if !h.seat.driver.Valid() {
		h.Exit()
		return
	}

	controls := h.controls
	h.controls.Use = false

	if controls.Use {
		if h.seat.skipUse {
			h.seat.skipUse = false
			return
		}
		h.Exit()
		return
	}
	h.seat.skipUse = false

	h.vehicle.SetInput(vehicle.InputFromButtons(controls.Buttons))
}

// Frame runs one render frame: look input, camera, then wheel posing.
// pitch and yaw are the look deltas of the frame, in degrees.
func (h *Host) Frame(dt, pitch, yaw float64) bool {
	if h.camera != nil && h.seat.occupied() {
		h.camera.BuildInput(pitch, yaw)
		h.camera.Update(dt, h.vehicle.View())
	}
	return h.vehicle.UpdatePose(dt)
}
