package sim

import (
	"errors"
	"math"
	"testing"
)

const testDt = 0.2

func flatTerrain(t *testing.T, width, y, diameter int) *Terrain {
	t.Helper()
	terrain, err := NewTerrain([]Platform{{X: 0, Length: width, Y: y}}, width, diameter)
	if err != nil {
		t.Fatalf("NewTerrain: %v", err)
	}
	return terrain
}

func stepTerrain(t *testing.T) *Terrain {
	t.Helper()
	// Heights: 50 for x < 50, 70 for x >= 50
	terrain, err := NewTerrain([]Platform{{X: 0, Length: 50, Y: 60}, {X: 50, Length: 50, Y: 80}}, 100, 10)
	if err != nil {
		t.Fatalf("NewTerrain: %v", err)
	}
	return terrain
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// advanceUntilStopped returns the tick on which the ball stopped, or 0.
func advanceUntilStopped(t *testing.T, b *Ball, terrain *Terrain, maxTicks int) int {
	t.Helper()
	for tick := 1; tick <= maxTicks; tick++ {
		ev, err := b.Advance(testDt, terrain)
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if ev.Stopped {
			return tick
		}
	}
	return 0
}

func TestBallSettlesOnFlatFloor(t *testing.T) {
	tests := []struct {
		hysteresis float64
		wantTick   int
	}{
		{0, 1406},
		{0.3, 183},
		{0.5, 102},
		{1, 37},
	}
	terrain := flatTerrain(t, 900, 300, 10)

	for _, tt := range tests {
		params := &Params{Diameter: 10, Gravity: 10, Hysteresis: tt.hysteresis}
		b := NewBall(100, 20, 0, 0, params)

		tick := advanceUntilStopped(t, b, terrain, 5000)
		if tick == 0 {
			t.Fatalf("h=%v: ball never stopped", tt.hysteresis)
		}
		if d := tick - tt.wantTick; d < -2 || d > 2 {
			t.Errorf("h=%v: stopped at tick %d, want about %d", tt.hysteresis, tick, tt.wantTick)
		}
		if b.Y() != 290 {
			t.Errorf("h=%v: rest height %v, want 290", tt.hysteresis, b.Y())
		}
		if b.X() != 100 {
			t.Errorf("h=%v: x drifted to %v", tt.hysteresis, b.X())
		}
		if b.VX() != 0 || b.VY() != 0 {
			t.Errorf("h=%v: velocity (%v, %v) not zeroed", tt.hysteresis, b.VX(), b.VY())
		}
		if !b.StoppedX() || !b.StoppedY() || !b.Stopped() {
			t.Errorf("h=%v: flags not set", tt.hysteresis)
		}
	}
}

func TestBallNoReboundStopsOnFirstContact(t *testing.T) {
	terrain := flatTerrain(t, 900, 300, 10)
	b := NewBall(100, 20, 0, 0, &Params{Diameter: 10, Gravity: 10, Hysteresis: 1})

	for tick := 1; tick <= 100; tick++ {
		before := b.Y()
		ev, err := b.Advance(testDt, terrain)
		if err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if tick == 1 && !b.StoppedX() {
			t.Error("horizontal axis should stop on the first tick")
		}
		if ev.Stopped {
			if before >= 290 {
				t.Errorf("ball was already on the floor before stopping (y=%v)", before)
			}
			if b.Y() != 290 {
				t.Errorf("y = %v, want 290", b.Y())
			}
			return
		}
	}
	t.Fatal("ball never stopped")
}

func TestBallRollsToRest(t *testing.T) {
	terrain := flatTerrain(t, 900, 300, 10)
	params := &Params{Diameter: 10, Gravity: 10, Hysteresis: 0.5, AirResistance: 0.1, RollingResistance: 0.5}
	b := NewBall(100, 280, 20, 0, params)

	tick := advanceUntilStopped(t, b, terrain, 1000)
	if tick == 0 {
		t.Fatal("ball never stopped")
	}
	if b.X() <= 100 {
		t.Errorf("ball did not move right: x=%v", b.X())
	}
	if b.Y() != 290 {
		t.Errorf("y = %v, want 290", b.Y())
	}
}

func TestStoppedBallIsAbsorbing(t *testing.T) {
	terrain := flatTerrain(t, 900, 300, 10)
	b := NewBall(100, 20, 0, 0, &Params{Diameter: 10, Gravity: 10, Hysteresis: 1})
	if advanceUntilStopped(t, b, terrain, 100) == 0 {
		t.Fatal("ball never stopped")
	}

	x, y := b.X(), b.Y()
	for i, dt := range []float64{0.01, 0.2, 1, 5} {
		ev, err := b.Advance(dt, terrain)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		if ev.Any() {
			t.Errorf("advance %d: stopped ball emitted %+v", i, ev)
		}
		if b.X() != x || b.Y() != y || b.VX() != 0 || b.VY() != 0 {
			t.Errorf("advance %d: stopped ball moved", i)
		}
	}

	// Changing shared parameters must not revive it either
	b.params.Gravity = 100
	b.params.Wind = 50
	if _, err := b.Advance(testDt, terrain); err != nil {
		t.Fatal(err)
	}
	if b.X() != x || b.Y() != y {
		t.Error("stopped ball moved after parameter change")
	}
}

func TestBounceEnergyNonIncrease(t *testing.T) {
	for _, h := range []float64{0, 0.25, 0.5, 0.9, 1} {
		b := NewBall(0, 280, 0, 5, &Params{Diameter: 10, Hysteresis: h})
		b.bounce(testDt, 290)

		if b.Y() != 290 {
			t.Errorf("h=%v: bounce did not snap to floor", h)
		}
		if want := 5 * (1 - h); !near(math.Abs(b.VY()), want) {
			t.Errorf("h=%v: |vy| = %v, want %v", h, math.Abs(b.VY()), want)
		}
		if math.Abs(b.VY()) > 5 {
			t.Errorf("h=%v: bounce gained energy", h)
		}
		if b.VY() > 0 {
			t.Errorf("h=%v: ball still moving into the floor", h)
		}
	}
}

func TestBounceWeakRebound(t *testing.T) {
	b := NewBall(0, 290, 0, 0.5, &Params{Diameter: 10})
	b.bounce(testDt, 290)
	if !b.Rolling() {
		t.Error("weak rebound should start rolling")
	}
	if b.StoppedY() {
		t.Error("vertical axis must not stop while still moving horizontally")
	}

	b = NewBall(0, 290, 0, 0.5, &Params{Diameter: 10})
	b.stoppedX = true
	b.bounce(testDt, 290)
	if !b.Rolling() || !b.StoppedY() {
		t.Error("weak rebound with horizontal stop should stop the vertical axis")
	}

	b = NewBall(0, 290, 0, 20, &Params{Diameter: 10})
	b.bounce(testDt, 290)
	if b.Rolling() {
		t.Error("strong rebound should not roll")
	}
}

func TestHorizontalThreshold(t *testing.T) {
	terrain := flatTerrain(t, 900, 300, 10)
	for _, vx := range []float64{0, 0.5, 1, -1} {
		b := NewBall(100, 50, vx, 0, &Params{Diameter: 10, Gravity: 10, Wind: 100})
		if _, err := b.Advance(testDt, terrain); err != nil {
			t.Fatal(err)
		}
		if !b.StoppedX() {
			t.Errorf("vx=%v: horizontal axis not stopped", vx)
		}
		if b.X() != 100 {
			t.Errorf("vx=%v: x moved to %v", vx, b.X())
		}
	}
}

func TestRollingResistance(t *testing.T) {
	terrain := flatTerrain(t, 900, 300, 10)
	b := NewBall(100, 290, 10, 0, &Params{Diameter: 10, Gravity: 10, Hysteresis: 1, RollingResistance: 0.5})
	b.rolling = true

	if _, err := b.Advance(testDt, terrain); err != nil {
		t.Fatal(err)
	}
	if !near(b.VX(), 9) {
		t.Errorf("vx = %v, want 9", b.VX())
	}
	if !b.Rolling() {
		t.Error("ball should still be rolling")
	}
}

func TestAirborneClearsRolling(t *testing.T) {
	terrain := flatTerrain(t, 900, 300, 10)
	b := NewBall(100, 100, 10, 0, &Params{Diameter: 10, Gravity: 10})
	b.rolling = true

	if _, err := b.Advance(testDt, terrain); err != nil {
		t.Fatal(err)
	}
	if b.Rolling() {
		t.Error("ball in the air must not be rolling")
	}
}

func TestWindAndAirResistance(t *testing.T) {
	terrain := flatTerrain(t, 900, 300, 10)
	b := NewBall(100, 100, 10, 0, &Params{Diameter: 10, AirResistance: 0.5, Wind: 5})

	if _, err := b.Advance(testDt, terrain); err != nil {
		t.Fatal(err)
	}
	// vx += (-10*0.5 + 5) * dt leaves vx unchanged
	if !near(b.VX(), 10) {
		t.Errorf("vx = %v, want 10", b.VX())
	}
	if !near(b.X(), 102) {
		t.Errorf("x = %v, want 102", b.X())
	}
}

func TestWrapPreservesClearance(t *testing.T) {
	terrain := stepTerrain(t)
	b := NewBall(85, 40, 30, 0, &Params{Diameter: 10})

	oldFloor, _ := terrain.HeightAt(int(b.X()))
	clearance := float64(oldFloor) - b.Y()

	if _, err := b.Advance(testDt, terrain); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !near(b.X(), 2) {
		t.Errorf("x = %v, want 2", b.X())
	}
	if !near(b.Y(), 20) {
		t.Errorf("y = %v, want 20", b.Y())
	}

	newFloor, _ := terrain.HeightAt(int(b.X()))
	if got := float64(newFloor) - b.Y(); !near(got, clearance) {
		t.Errorf("clearance %v, want %v", got, clearance)
	}
	if b.VX() != 30 {
		t.Errorf("wrap changed vx to %v", b.VX())
	}
}

func TestWrapLargeOvershoot(t *testing.T) {
	terrain := stepTerrain(t)
	b := NewBall(85, 40, 1000, 0, &Params{Diameter: 10})

	if _, err := b.Advance(testDt, terrain); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if b.X() < 0 || b.X()+10 > 99 {
		t.Errorf("x = %v outside the wrap span", b.X())
	}
	if !near(b.X(), 18) {
		t.Errorf("x = %v, want 18", b.X())
	}
}

func TestWrapHugeVelocity(t *testing.T) {
	terrain := stepTerrain(t)
	b := NewBall(85, 40, 1e12, 0, &Params{Diameter: 10})

	if _, err := b.Advance(testDt, terrain); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !near(b.X(), 17) {
		t.Errorf("x = %v, want 17", b.X())
	}
	if b.VX() != 1e12 {
		t.Errorf("wrap changed vx to %v", b.VX())
	}
}

func TestAdvanceOutOfRange(t *testing.T) {
	terrain := flatTerrain(t, 100, 60, 10)
	b := NewBall(-5, 20, 0, 0, &Params{Diameter: 10, Gravity: 10})

	_, err := b.Advance(testDt, terrain)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	var idxErr *IndexError
	if !errors.As(err, &idxErr) || idxErr.X != -5 {
		t.Errorf("unexpected error %#v", err)
	}
}

func TestUpdateVisibility(t *testing.T) {
	b := NewBall(50, 10, 0, 0, &Params{Diameter: 10})
	if ev := b.UpdateVisibility(100); ev.Any() {
		t.Errorf("visible ball emitted %+v", ev)
	}

	b.y = -5
	if ev := b.UpdateVisibility(100); !ev.WentOffScreen || ev.CameOnScreen {
		t.Errorf("expected off-screen transition, got %+v", ev)
	}
	if !b.OffScreen() {
		t.Error("ball should be off-screen")
	}
	if ev := b.UpdateVisibility(100); ev.Any() {
		t.Errorf("repeated check emitted %+v", ev)
	}

	b.y = 5
	if ev := b.UpdateVisibility(100); !ev.CameOnScreen || ev.WentOffScreen {
		t.Errorf("expected on-screen transition, got %+v", ev)
	}

	b.x = 100
	if ev := b.UpdateVisibility(100); !ev.WentOffScreen {
		t.Errorf("x == width should be off-screen, got %+v", ev)
	}
}
