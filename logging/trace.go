package logging

import (
	"github.com/akmonengine/drivetrain/vehicle"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AttachVehicleTrace logs every vehicle event. Landings and takeoffs are logged at info level,
// the per tick probe, grip and air control events at debug level.
func AttachVehicleTrace(logger *zap.Logger, events *vehicle.Events) {
	logger = logger.Named("vehicle")

	events.SubscribeAll(func(event vehicle.Event) {
		level := zap.DebugLevel
		switch event.(type) {
		case vehicle.GroundEnterEvent, vehicle.GroundExitEvent:
			level = zap.InfoLevel
		}

		ce := logger.Check(level, event.Type().String())
		if ce == nil {
			return
		}
		ce.Write(eventFields(event)...)
	})
}

func eventFields(event vehicle.Event) []zapcore.Field {
	switch e := event.(type) {
	case vehicle.ProbeEvent:
		return []zapcore.Field{
			zap.Stringer("wheel", e.Wheel),
			zap.Bool("grounded", e.Grounded),
			zap.Float64("distance", e.Distance),
			zap.Float64("compression", e.Compression),
			zap.Float64("impulse", e.Impulse),
		}
	case vehicle.GripEvent:
		return []zapcore.Field{
			zap.Float64("grip", e.Grip),
			zap.Float64("angle", e.Angle),
			zap.Float64("speed", e.Speed),
		}
	case vehicle.GroundEnterEvent:
		return []zapcore.Field{zap.Float64("speed", e.Speed)}
	case vehicle.GroundExitEvent:
		return []zapcore.Field{zap.Float64("speed", e.Speed)}
	case vehicle.AirControlEvent:
		return []zapcore.Field{
			zap.Float64("roll", e.Roll),
			zap.Float64("tilt", e.Tilt),
			zap.Bool("near_ground", e.NearGround),
		}
	}
	return nil
}
