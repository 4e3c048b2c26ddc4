package camera

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("camera: invalid config")

// Config is the tuning of the chase camera. Angles are in degrees, rates per second.
type Config struct {
	MinFieldOfView       float64 `yaml:"min_fov"`
	MaxFieldOfView       float64 `yaml:"max_fov"`
	MaxFieldOfViewSpeed  float64 `yaml:"max_fov_speed"`
	FieldOfViewSmoothing float64 `yaml:"fov_smoothing"`

	// OrbitCooldown is how long free look survives without input, seconds
	OrbitCooldown   float64 `yaml:"orbit_cooldown"`
	OrbitSmoothing  float64 `yaml:"orbit_smoothing"`
	ReturnSmoothing float64 `yaml:"return_smoothing"`
	// MaxReturnSpeed is the vehicle speed giving a return rate of 1 per second
	MaxReturnSpeed float64 `yaml:"max_return_speed"`

	MinOrbitPitch   float64 `yaml:"min_orbit_pitch"`
	MaxOrbitPitch   float64 `yaml:"max_orbit_pitch"`
	FixedOrbitPitch float64 `yaml:"fixed_orbit_pitch"`
	OrbitHeight     float64 `yaml:"orbit_height"`
	OrbitDistance   float64 `yaml:"orbit_distance"`

	MinChassisPitch       float64 `yaml:"min_chassis_pitch"`
	MaxChassisPitch       float64 `yaml:"max_chassis_pitch"`
	ChassisPitchSmoothing float64 `yaml:"chassis_pitch_smoothing"`

	CollisionRadius    float64 `yaml:"collision_radius"`
	MinCollisionRadius float64 `yaml:"min_collision_radius"`
	MaxCollisionRadius float64 `yaml:"max_collision_radius"`

	ShakeSpeed     float64 `yaml:"shake_speed"`
	ShakeThreshold float64 `yaml:"shake_threshold"`
	ShakeMaxSpeed  float64 `yaml:"shake_max_speed"`
	ShakeMaxLength float64 `yaml:"shake_max_length"`

	// SoftFollow eases the camera toward the framed position instead of snapping to it
	SoftFollow              bool    `yaml:"soft_follow"`
	SoftFollowRate          float64 `yaml:"soft_follow_rate"`
	SoftFollowGain          float64 `yaml:"soft_follow_gain"`
	SoftFollowMaxCorrection float64 `yaml:"soft_follow_max_correction"`

	NoiseSeed int64 `yaml:"noise_seed"`
}

func DefaultConfig() Config {
	return Config{
		MinFieldOfView:       80,
		MaxFieldOfView:       100,
		MaxFieldOfViewSpeed:  1000,
		FieldOfViewSmoothing: 4,

		OrbitCooldown:   0.6,
		OrbitSmoothing:  25,
		ReturnSmoothing: 4,
		MaxReturnSpeed:  100,

		MinOrbitPitch:   -25,
		MaxOrbitPitch:   70,
		FixedOrbitPitch: 10,
		OrbitHeight:     35,
		OrbitDistance:   260,

		MinChassisPitch:       -60,
		MaxChassisPitch:       60,
		ChassisPitchSmoothing: 0.4,

		CollisionRadius:    8,
		MinCollisionRadius: 2,
		MaxCollisionRadius: 10,

		ShakeSpeed:     200,
		ShakeThreshold: 1000,
		ShakeMaxSpeed:  2500,
		ShakeMaxLength: 2,

		SoftFollowRate:          5,
		SoftFollowGain:          0.1,
		SoftFollowMaxCorrection: 2,

		NoiseSeed: 1,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MinOrbitPitch > c.MaxOrbitPitch:
		return fmt.Errorf("%w: orbit pitch range [%v, %v] is inverted", ErrInvalidConfig, c.MinOrbitPitch, c.MaxOrbitPitch)
	case c.MinOrbitPitch < -90 || c.MaxOrbitPitch > 90:
		return fmt.Errorf("%w: orbit pitch range must stay within [-90, 90]", ErrInvalidConfig)
	case c.MinChassisPitch > c.MaxChassisPitch:
		return fmt.Errorf("%w: chassis pitch range is inverted", ErrInvalidConfig)
	case c.MinFieldOfView <= 0 || c.MinFieldOfView > c.MaxFieldOfView:
		return fmt.Errorf("%w: field of view range [%v, %v]", ErrInvalidConfig, c.MinFieldOfView, c.MaxFieldOfView)
	case c.MinCollisionRadius > c.MaxCollisionRadius:
		return fmt.Errorf("%w: collision radius range is inverted", ErrInvalidConfig)
	case c.ShakeMaxSpeed <= c.ShakeThreshold:
		return fmt.Errorf("%w: shake max speed must exceed its threshold", ErrInvalidConfig)
	case c.OrbitDistance <= 0:
		return fmt.Errorf("%w: orbit distance must be positive", ErrInvalidConfig)
	case c.OrbitCooldown < 0:
		return fmt.Errorf("%w: orbit cooldown must not be negative", ErrInvalidConfig)
	}
	return nil
}
