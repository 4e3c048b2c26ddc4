package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/akmonengine/drivetrain/config"
	"github.com/akmonengine/drivetrain/mathutil"
	"github.com/akmonengine/drivetrain/sim"
	"github.com/akmonengine/drivetrain/vehicle"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

const (
	// Terminals only report presses, a key counts as held until its repeat stops
	holdDuration = 150 * time.Millisecond
	// Longest real time simulated per frame, a stalled terminal must not burst ticks
	maxFrameTime = 0.25
	// Look speed, degrees per second
	lookSpeed = 120.0

	// World units per terminal cell
	cellWidth  = 20.0
	cellHeight = 40.0
)

var (
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCar      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleWheel    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleAirborne = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleCamera   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
)

// keyState maps a key to the time it stops being held.
type keyState map[rune]time.Time

func (k keyState) press(r rune, now time.Time) {
	k[r] = now.Add(holdDuration)
}

func (k keyState) held(r rune, now time.Time) bool {
	return now.Before(k[r])
}

type app struct {
	screen   tcell.Screen
	host     *sim.Host
	scene    *scene
	settings config.Settings
	logger   *zap.Logger
	watcher  *config.Watcher

	keys       keyState
	use        bool
	wasDriving bool
}

func (a *app) run(ctx context.Context, events <-chan tcell.Event) error {
	ticker := time.NewTicker(a.settings.FrameInterval())
	defer ticker.Stop()

	var (
		updates <-chan config.Tuning
		errs    <-chan error
	)
	if a.watcher != nil {
		updates, errs = a.watcher.Updates, a.watcher.Errors
	}

	a.scene.player.logger = a.logger
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if !a.handleEvent(ev) {
				return nil
			}

		case tuning, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			a.host.ApplyTuning(tuning)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			a.logger.Warn("tuning reload failed", zap.Error(err))

		case now := <-ticker.C:
			elapsed := math.Min(now.Sub(last).Seconds(), maxFrameTime)
			last = now
			a.frame(now, elapsed)
		}
	}
}

func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		now := time.Now()
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			a.keys.press('w', now)
		case tcell.KeyDown:
			a.keys.press('s', now)
		case tcell.KeyLeft:
			a.keys.press('a', now)
		case tcell.KeyRight:
			a.keys.press('d', now)
		case tcell.KeyRune:
			switch r := ev.Rune(); r {
			case 'q':
				return false
			case 'e':
				a.pressUse()
			case 'c':
				cam := a.host.Camera()
				cam.SetSoftFollow(!cam.Config().SoftFollow)
			default:
				a.keys.press(r, now)
			}
		}

	case *tcell.EventResize:
		a.screen.Sync()
	}

	return true
}

// pressUse seats the player, or hands the press to the host which unseats on its next tick.
func (a *app) pressUse() {
	if a.host.Driver() == nil {
		if !a.host.Enter(a.scene.player) {
			return
		}
	}
	// the press that seated the player is seen by the next tick too, as it would be in game
	a.use = true
}

func (a *app) frame(now time.Time, elapsed float64) {
	a.host.SetControls(sim.Controls{
		Buttons: vehicle.Buttons{
			Forward: a.keys.held('w', now),
			Back:    a.keys.held('s', now),
			Left:    a.keys.held('a', now),
			Right:   a.keys.held('d', now),
			Jump:    a.keys.held(' ', now),
			Run:     a.keys.held('r', now),
			Duck:    a.keys.held('f', now),
		},
		Use: a.use,
	})
	a.use = false

	a.host.Advance(elapsed)

	driving := a.host.Driver() != nil
	if a.wasDriving && !driving {
		a.dropPlayer()
	}
	a.wasDriving = driving

	pitch := axis(a.keys.held('i', now), a.keys.held('k', now)) * lookSpeed * elapsed
	yaw := axis(a.keys.held('j', now), a.keys.held('l', now)) * lookSpeed * elapsed
	a.host.Frame(elapsed, pitch, yaw)

	a.draw()
}

// dropPlayer puts the player back on foot beside the car.
func (a *app) dropPlayer() {
	view := a.host.Vehicle().View()
	if !view.Valid {
		return
	}

	body := a.scene.player.Body()
	position := view.Position.Add(mathutil.Left(view.Rotation).Mul(120 * view.Scale))
	body.Transform.Position = mgl64.Vec3{position.X(), position.Y(), 36}
	a.scene.world.Invalidate()
}

func axis(positive, negative bool) float64 {
	switch {
	case positive && !negative:
		return 1
	case negative && !positive:
		return -1
	}
	return 0
}

func (a *app) draw() {
	a.screen.Clear()
	width, height := a.screen.Size()

	view := a.host.Vehicle().View()
	origin := view.Position
	project := func(p mgl64.Vec3) (int, int) {
		x := width/2 + int(math.Round((p.X()-origin.X())/cellWidth))
		y := height/2 - int(math.Round((p.Y()-origin.Y())/cellHeight))
		return x, y
	}
	put := func(p mgl64.Vec3, r rune, style tcell.Style) {
		x, y := project(p)
		if x >= 0 && x < width && y >= 0 && y < height {
			a.screen.SetContent(x, y, r, nil, style)
		}
	}

	for _, o := range a.scene.obstacles {
		center := o.body.Transform.Position
		for dx := -o.extent.X(); dx <= o.extent.X(); dx += cellWidth {
			for dy := -o.extent.Y(); dy <= o.extent.Y(); dy += cellHeight {
				put(center.Add(mgl64.Vec3{dx, dy, 0}), '#', styleObstacle)
			}
		}
	}

	if a.host.Driver() == nil {
		put(a.scene.player.Position(), 'P', stylePlayer)
	}

	if view.Valid {
		car := a.host.Vehicle()
		for _, w := range car.Wheels() {
			style := styleWheel
			if !w.Grounded {
				style = styleAirborne
			}
			put(view.Position.Add(w.WorldAttachOffset(view.Rotation, view.Scale)), 'o', style)
		}
		put(view.Position, '@', styleCar)
		put(view.Position.Add(mathutil.Forward(view.Rotation).Mul(3*cellWidth)), headingRune(mathutil.Yaw(view.Rotation)), styleCar)

		if cam := a.host.Camera(); cam.Active() {
			put(cam.Frame().Position, 'C', styleCamera)
		}
	}

	a.drawHUD(view)
	a.screen.Show()
}

func headingRune(yaw float64) rune {
	arrows := []rune{'>', '/', '^', '\\', '<', '/', 'v', '\\'}
	i := int(math.Round(mathutil.NormalizeAngle(yaw)/45)+8) % 8
	return arrows[i]
}

func (a *app) drawHUD(view vehicle.View) {
	s := view.State
	cam := a.host.Camera()
	frame := cam.Frame()
	pose := a.host.Vehicle().Pose()

	seat := "on foot (e to enter)"
	if a.host.Driver() != nil {
		seat = "driving (e to leave)"
	}

	lines := []string{
		fmt.Sprintf("t=%6.1fs  %s", a.host.Clock(), seat),
		fmt.Sprintf("speed %7.1f  grip %.2f  steer %5.1f", s.MovementSpeed, s.Grip, pose.SteerAngle),
		fmt.Sprintf("front %-5v back %-5v air control %v", s.FrontGrounded, s.BackGrounded, s.CanAirControl),
		fmt.Sprintf("pos %7.0f %7.0f %6.0f  yaw %6.1f", view.Position.X(), view.Position.Y(), view.Position.Z(), mathutil.Yaw(view.Rotation)),
		fmt.Sprintf("fov %5.1f  orbit %-5v soft follow %v", frame.FieldOfView, cam.State().OrbitEnabled, cam.Config().SoftFollow),
	}
	for row, line := range lines {
		for col, r := range line {
			a.screen.SetContent(col, row, r, nil, styleHUD)
		}
	}
}
