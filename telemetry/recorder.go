// Package telemetry records vehicle state to SQLite for tuning sessions and exports tick metrics
// through OpenTelemetry.
package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/akmonengine/drivetrain/mathutil"
	"github.com/akmonengine/drivetrain/vehicle"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const flushSize = 256

var ErrNoSession = errors.New("telemetry: no session started")

// Session is one recorded drive.
type Session struct {
	ID        string `gorm:"primaryKey"`
	StartedAt time.Time
	TickRate  float64
	// Tuning is the YAML tuning the session was driven with
	Tuning string
}

// Sample is the vehicle state after one tick.
type Sample struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"index"`
	Tick      uint64
	Time      float64

	Speed         float64
	WheelSpeed    float64
	Grip          float64
	Grounded      bool
	FrontGrounded bool
	BackGrounded  bool
	AirControl    bool

	X, Y, Z float64
	Yaw     float64
}

// Recorder buffers samples and writes them in batches.
type Recorder struct {
	DB      *gorm.DB
	session *Session
	pending []Sample
	dropped uint64
}

// Open opens or creates the SQLite database at path. ":memory:" keeps everything in memory.
func Open(path string) (*Recorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}

	// SQLite has a single writer, and every connection to ":memory:" is a database of its own
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Session{}, &Sample{}); err != nil {
		return nil, fmt.Errorf("telemetry: migrate: %w", err)
	}

	return &Recorder{
		DB:      db,
		pending: make([]Sample, 0, flushSize),
	}, nil
}

// Start flushes the running session, if any, and opens a new one.
func (r *Recorder) Start(tickRate float64, tuning string) (string, error) {
	if err := r.Flush(); err != nil {
		return "", err
	}

	session := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		TickRate:  tickRate,
		Tuning:    tuning,
	}
	if err := r.DB.Create(session).Error; err != nil {
		return "", fmt.Errorf("telemetry: create session: %w", err)
	}

	r.session = session
	return session.ID, nil
}

// SessionID is empty until Start is called.
func (r *Recorder) SessionID() string {
	if r.session == nil {
		return ""
	}
	return r.session.ID
}

// Record buffers the state of view. Invalid views are skipped.
func (r *Recorder) Record(tick uint64, now float64, view vehicle.View) error {
	if r.session == nil {
		return ErrNoSession
	}
	if !view.Valid {
		return nil
	}

	s := view.State
	r.pending = append(r.pending, Sample{
		SessionID:     r.session.ID,
		Tick:          tick,
		Time:          now,
		Speed:         s.MovementSpeed,
		WheelSpeed:    s.WheelSpeed,
		Grip:          s.Grip,
		Grounded:      s.Grounded,
		FrontGrounded: s.FrontGrounded,
		BackGrounded:  s.BackGrounded,
		AirControl:    s.CanAirControl,
		X:             view.Position.X(),
		Y:             view.Position.Y(),
		Z:             view.Position.Z(),
		Yaw:           mathutil.Yaw(view.Rotation),
	})

	if len(r.pending) >= flushSize {
		return r.Flush()
	}
	return nil
}

// Flush writes the buffered samples. A failed batch is dropped so the buffer stays bounded
// while the database is unavailable.
func (r *Recorder) Flush() error {
	if len(r.pending) == 0 {
		return nil
	}

	err := r.DB.CreateInBatches(r.pending, flushSize).Error
	count := len(r.pending)
	r.pending = r.pending[:0]
	if err != nil {
		r.dropped += uint64(count)
		return fmt.Errorf("telemetry: write samples, %d dropped: %w", count, err)
	}

	return nil
}

// Dropped is the number of samples lost to failed writes.
func (r *Recorder) Dropped() uint64 { return r.dropped }

// Samples reads back the written samples of a session, in tick order.
func (r *Recorder) Samples(sessionID string) ([]Sample, error) {
	var samples []Sample
	err := r.DB.Where("session_id = ?", sessionID).Order("tick").Find(&samples).Error
	if err != nil {
		return nil, fmt.Errorf("telemetry: read samples: %w", err)
	}
	return samples, nil
}

func (r *Recorder) Sessions() ([]Session, error) {
	var sessions []Session
	if err := r.DB.Order("started_at").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("telemetry: read sessions: %w", err)
	}
	return sessions, nil
}

// Close flushes pending samples and closes the database.
func (r *Recorder) Close() error {
	flushErr := r.Flush()

	sqlDB, err := r.DB.DB()
	if err != nil {
		return errors.Join(flushErr, err)
	}
	return errors.Join(flushErr, sqlDB.Close())
}
