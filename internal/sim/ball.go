package sim

import "math"

// VelocityThreshold is the speed below which a ball stops moving along an
// axis, and the rebound speed below which it starts rolling.
const VelocityThreshold = 1.0

// Params are the physical parameters shared by every ball of a simulation.
// Balls hold a pointer, so changes are visible on the next tick.
type Params struct {
	Diameter          float64
	Gravity           float64
	Hysteresis        float64 // Energy lost per bounce, in [0, 1]
	AirResistance     float64
	RollingResistance float64
	Wind              float64
}

// Event reports the observable transitions of one ball in one tick.
type Event struct {
	Stopped       bool // The ball came to rest this tick
	WentOffScreen bool
	CameOnScreen  bool
}

// Any reports whether the event carries a transition.
func (e Event) Any() bool {
	return e.Stopped || e.WentOffScreen || e.CameOnScreen
}

// Ball is a point mass integrated with semi-implicit Euler steps.
// Positions use screen orientation: y grows downwards, gravity is positive.
type Ball struct {
	x, y   float64
	vx, vy float64

	stoppedX  bool
	stoppedY  bool
	stopped   bool
	rolling   bool
	offScreen bool

	params *Params
}

// NewBall creates a ball in motion.
func NewBall(x, y, vx, vy float64, params *Params) *Ball {
	return &Ball{x: x, y: y, vx: vx, vy: vy, params: params}
}

// Advance integrates the ball by one time step. A stopped ball is never
// mutated again. The error is always an *IndexError and means the ball left
// the terrain.
func (b *Ball) Advance(dt float64, t *Terrain) (Event, error) {
	var ev Event
	if b.stopped {
		return ev, nil
	}

	if !b.stoppedX {
		if err := b.moveHorizontal(dt, t); err != nil {
			return ev, err
		}
	}
	if !b.stoppedY {
		if err := b.moveVertical(dt, t); err != nil {
			return ev, err
		}
	}

	if b.stoppedX && b.stoppedY {
		b.stopped = true
		b.vx, b.vy = 0, 0
		ev.Stopped = true
	}
	return ev, nil
}

func (b *Ball) moveHorizontal(dt float64, t *Terrain) error {
	if math.Abs(b.vx) <= VelocityThreshold {
		b.stoppedX = true
		return nil
	}

	p := b.params
	b.vx += (-b.vx*p.AirResistance + p.Wind) * dt
	if b.rolling {
		b.vx *= 1 - p.RollingResistance*dt
	}

	next := b.x + b.vx*dt
	if next+p.Diameter > float64(t.Width()-1) {
		return b.wrap(next, t)
	}
	b.x = next
	return nil
}

// wrap re-enters a ball crossing the right edge from the left, keeping its
// clearance above the floor.
func (b *Ball) wrap(next float64, t *Terrain) error {
	d := b.params.Diameter
	limit := float64(t.Width() - 1)

	oldFloor, err := t.HeightAt(int(b.x))
	if err != nil {
		return err
	}

	span := limit - d
	x := next - span
	if x+d > limit {
		x = math.Mod(x, span)
		if x == 0 {
			x = span
		}
	}

	newFloor, err := t.HeightAt(int(x))
	if err != nil {
		return err
	}

	b.y = float64(newFloor) - (float64(oldFloor) - b.y)
	b.x = x
	return nil
}

func (b *Ball) moveVertical(dt float64, t *Terrain) error {
	floor, err := t.HeightAt(int(b.x))
	if err != nil {
		return err
	}

	g := b.params.Gravity
	next := b.y + (b.vy+g*dt)*dt
	if next >= float64(floor) {
		b.bounce(dt, float64(floor))
		return nil
	}

	b.vy += g * dt
	b.y = next
	b.rolling = false
	return nil
}

// bounce snaps the ball onto the floor and reflects its vertical velocity,
// losing the hysteresis fraction.
func (b *Ball) bounce(dt, floor float64) {
	b.vy += b.params.Gravity * dt
	b.y = floor
	b.vy = -b.vy * (1 - b.params.Hysteresis)

	if b.vy > -VelocityThreshold {
		b.rolling = true
		if b.stoppedX {
			b.stoppedY = true
		}
	}
}

// UpdateVisibility re-evaluates whether the ball lies inside the space and
// reports a transition if that changed.
func (b *Ball) UpdateVisibility(width int) Event {
	var ev Event
	visible := b.InXBounds(width) && b.InYBounds()
	switch {
	case b.offScreen && visible:
		b.offScreen = false
		ev.CameOnScreen = true
	case !b.offScreen && !visible:
		b.offScreen = true
		ev.WentOffScreen = true
	}
	return ev
}

// InXBounds reports whether the ball's reference point is within the width.
func (b *Ball) InXBounds(width int) bool {
	return b.x >= 0 && b.x < float64(width)
}

// InYBounds reports whether the ball is below the top edge.
func (b *Ball) InYBounds() bool {
	return b.y >= 0
}

// State accessors.

func (b *Ball) X() float64      { return b.x }
func (b *Ball) Y() float64      { return b.y }
func (b *Ball) VX() float64     { return b.vx }
func (b *Ball) VY() float64     { return b.vy }
func (b *Ball) Stopped() bool   { return b.stopped }
func (b *Ball) StoppedX() bool  { return b.stoppedX }
func (b *Ball) StoppedY() bool  { return b.stoppedY }
func (b *Ball) Rolling() bool   { return b.rolling }
func (b *Ball) OffScreen() bool { return b.offScreen }
