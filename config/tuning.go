// Package config loads vehicle and camera tuning files, application settings, and watches tuning
// files for changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/akmonengine/drivetrain/camera"
	"github.com/akmonengine/drivetrain/vehicle"
	"gopkg.in/yaml.v3"
)

var ErrInvalidTuning = errors.New("config: invalid tuning")

// Tuning groups every tunable of a driving session.
type Tuning struct {
	Vehicle vehicle.Config `yaml:"vehicle"`
	Camera  camera.Config  `yaml:"camera"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Vehicle: vehicle.DefaultConfig(),
		Camera:  camera.DefaultConfig(),
	}
}

func (t Tuning) Validate() error {
	if err := t.Vehicle.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTuning, err)
	}
	if err := t.Camera.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTuning, err)
	}
	return nil
}

// LoadTuning reads a YAML tuning file. Keys missing from the file keep their default value.
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("config: read tuning %s: %w", path, err)
	}

	return LoadTuningBytes(data)
}

func LoadTuningBytes(data []byte) (Tuning, error) {
	return DecodeTuning(bytes.NewReader(data))
}

// DecodeTuning decodes YAML over DefaultTuning and validates the result.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func DecodeTuning(r io.Reader) (Tuning, error) {
	tuning := DefaultTuning()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&tuning); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, fmt.Errorf("config: decode tuning: %w", err)
	}

	if err := tuning.Validate(); err != nil {
		return Tuning{}, err
	}

	return tuning, nil
}

// EncodeTuning writes t as YAML, the format LoadTuning reads back.
func EncodeTuning(w io.Writer, t Tuning) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(t); err != nil {
		return fmt.Errorf("config: encode tuning: %w", err)
	}
	return encoder.Close()
}
