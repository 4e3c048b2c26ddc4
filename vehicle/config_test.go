package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero scale", func(c *Config) { c.Scale = 0 }},
		{"negative suspension", func(c *Config) { c.Suspension.Length = -1 }},
		{"zero max speed", func(c *Config) { c.Drive.MaxSpeed = 0 }},
		{"decay above one", func(c *Config) { c.Smoothing.Grip = 1.5 }},
		{"spin damping below zero", func(c *Config) { c.AirControl.SpinDamping = -0.1 }},
		{"travel longer than suspension", func(c *Config) { c.Layout.TiltTravel = 19 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
