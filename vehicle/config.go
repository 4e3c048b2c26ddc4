package vehicle

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("vehicle: invalid config")

// SuspensionConfig holds the gains of the wheel probes. Spring and damper gains are per unit of mass.
type SuspensionConfig struct {
	Length          float64 `yaml:"length"`
	Spring          float64 `yaml:"spring"`
	DamperBase      float64 `yaml:"damper_base"`
	DamperSlope     float64 `yaml:"damper_slope"`
	Correction      float64 `yaml:"correction"`
	CorrectionSpeed float64 `yaml:"correction_speed"`
}

// LayoutConfig places the wheel attach points in vehicle space, before scaling.
type LayoutConfig struct {
	Forward       float64 `yaml:"forward"`
	Side          float64 `yaml:"side"`
	Height        float64 `yaml:"height"`
	TiltTravel    float64 `yaml:"tilt_travel"`
	LeanTravel    float64 `yaml:"lean_travel"`
	WheelRadius   float64 `yaml:"wheel_radius"`
	MaxSteerAngle float64 `yaml:"max_steer_angle"`
}

type DriveConfig struct {
	Acceleration  float64 `yaml:"acceleration"`
	ReverseFactor float64 `yaml:"reverse_factor"`
	// Drive fades linearly to nothing at this forward speed
	MaxSpeed float64 `yaml:"max_speed"`
}

type SteeringConfig struct {
	TurnSpeed float64 `yaml:"turn_speed"`
	// Yaw authority ramps in up to this speed
	TurnRampSpeed float64 `yaml:"turn_ramp_speed"`
	// Yaw authority tapers above this speed, by at most TaperMax
	TaperSpeed float64 `yaml:"taper_speed"`
	TaperMax   float64 `yaml:"taper_max"`
	// Lean reaches its full amount at this speed
	LeanSpeed float64 `yaml:"lean_speed"`
}

// SmoothingConfig holds decay constants: the fraction of the gap left after one second.
type SmoothingConfig struct {
	Turn   float64 `yaml:"turn"`
	Air    float64 `yaml:"air"`
	Stance float64 `yaml:"stance"`
	Grip   float64 `yaml:"grip"`
}

type GripConfig struct {
	// Heading is fully trusted from this horizontal speed on
	Speed    float64 `yaml:"speed"`
	Exponent float64 `yaml:"exponent"`
	Deadzone float64 `yaml:"deadzone"`

	MaxAngularDamping float64 `yaml:"max_angular_damping"`
	AirAngularDamping float64 `yaml:"air_angular_damping"`
	ForwardDamping    float64 `yaml:"forward_damping"`
	BrakeDamping      float64 `yaml:"brake_damping"`
}

type AirControlConfig struct {
	// Air control is disabled when ground lies within this distance below the mass center
	ClearanceProbe float64 `yaml:"clearance_probe"`
	Offset         float64 `yaml:"offset"`
	ProbeDrop      float64 `yaml:"probe_drop"`
	ProbeReach     float64 `yaml:"probe_reach"`
	RollForce      float64 `yaml:"roll_force"`
	NearRollForce  float64 `yaml:"near_roll_force"`
	TiltForce      float64 `yaml:"tilt_force"`
	SpinDamping    float64 `yaml:"spin_damping"`
}

// Config is the tuning of a vehicle. Lengths are in world units at scale 1.
type Config struct {
	Scale      float64          `yaml:"scale"`
	Suspension SuspensionConfig `yaml:"suspension"`
	Layout     LayoutConfig     `yaml:"layout"`
	Drive      DriveConfig      `yaml:"drive"`
	Steering   SteeringConfig   `yaml:"steering"`
	Smoothing  SmoothingConfig  `yaml:"smoothing"`
	Grip       GripConfig       `yaml:"grip"`
	AirControl AirControlConfig `yaml:"air_control"`
}

func DefaultConfig() Config {
	return Config{
		Scale: 1,
		Suspension: SuspensionConfig{
			Length:          20,
			Spring:          50,
			DamperBase:      1.5,
			DamperSlope:     3,
			Correction:      50,
			CorrectionSpeed: 1000,
		},
		Layout: LayoutConfig{
			Forward:       42,
			Side:          32,
			Height:        15.5,
			TiltTravel:    1.5,
			LeanTravel:    1.35,
			WheelRadius:   14,
			MaxSteerAngle: 25,
		},
		Drive: DriveConfig{
			Acceleration:  500,
			ReverseFactor: 0.5,
			MaxSpeed:      5000,
		},
		Steering: SteeringConfig{
			TurnSpeed:     25,
			TurnRampSpeed: 500,
			TaperSpeed:    1000,
			TaperMax:      0.6,
			LeanSpeed:     500,
		},
		Smoothing: SmoothingConfig{
			Turn:   0.001,
			Air:    0.0001,
			Stance: 0.01,
			Grip:   0.001,
		},
		Grip: GripConfig{
			Speed:             1000,
			Exponent:          5,
			Deadzone:          0.01,
			MaxAngularDamping: 5,
			AirAngularDamping: 0.5,
			ForwardDamping:    0.1,
			BrakeDamping:      0.9,
		},
		AirControl: AirControlConfig{
			ClearanceProbe: 50,
			Offset:         50,
			ProbeDrop:      10,
			ProbeReach:     25,
			RollForce:      100,
			NearRollForce:  400,
			TiltForce:      200,
			SpinDamping:    0.95,
		},
	}
}

// Validate reports the first setting that would make the simulation misbehave.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"scale", c.Scale},
		{"suspension.length", c.Suspension.Length},
		{"suspension.correction_speed", c.Suspension.CorrectionSpeed},
		{"layout.wheel_radius", c.Layout.WheelRadius},
		{"drive.max_speed", c.Drive.MaxSpeed},
		{"steering.turn_ramp_speed", c.Steering.TurnRampSpeed},
		{"steering.taper_speed", c.Steering.TaperSpeed},
		{"steering.lean_speed", c.Steering.LeanSpeed},
		{"grip.speed", c.Grip.Speed},
		{"air_control.clearance_probe", c.AirControl.ClearanceProbe},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}

	unit := []struct {
		name  string
		value float64
	}{
		{"smoothing.turn", c.Smoothing.Turn},
		{"smoothing.air", c.Smoothing.Air},
		{"smoothing.stance", c.Smoothing.Stance},
		{"smoothing.grip", c.Smoothing.Grip},
		{"steering.taper_max", c.Steering.TaperMax},
		{"grip.forward_damping", c.Grip.ForwardDamping},
		{"grip.brake_damping", c.Grip.BrakeDamping},
		{"air_control.spin_damping", c.AirControl.SpinDamping},
	}
	for _, u := range unit {
		if u.value < 0 || u.value > 1 {
			return fmt.Errorf("%w: %s must lie in [0, 1], got %v", ErrInvalidConfig, u.name, u.value)
		}
	}

	// Wheels would start below the ground they probe
	if c.Layout.TiltTravel+c.Layout.LeanTravel >= c.Suspension.Length {
		return fmt.Errorf("%w: suspension travel exceeds its length", ErrInvalidConfig)
	}

	return nil
}
