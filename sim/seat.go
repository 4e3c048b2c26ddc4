package sim

// EnterCooldown is the time, in seconds, before a vehicle accepts a driver again after one left.
const EnterCooldown = 1.0

// Driver is the agent seated in the vehicle.
type Driver interface {
	ID() uint64
	Valid() bool
}

// Armament is implemented by drivers carrying a weapon that must be put away while driving.
type Armament interface {
	Disarm()
	Rearm()
}

// seat tracks who drives and when the last driver left.
type seat struct {
	driver Driver
	// skipUse swallows the use press that seated the driver
	skipUse bool
	leftAt  float64
	left    bool
}

func (s *seat) occupied() bool {
	return s.driver != nil
}

func (s *seat) canEnter(now float64) bool {
	if s.occupied() {
		return false
	}
	return !s.left || now-s.leftAt > EnterCooldown
}

func (s *seat) enter(driver Driver) {
	s.driver = driver
	s.skipUse = true
	if a, ok := driver.(Armament); ok {
		a.Disarm()
	}
}

func (s *seat) exit(now float64) Driver {
	driver := s.driver
	s.driver = nil
	s.skipUse = false
	s.leftAt = now
	s.left = true

	if a, ok := driver.(Armament); ok && driver.Valid() {
		a.Rearm()
	}
	return driver
}
