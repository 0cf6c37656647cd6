package game

import (
	"math"
	"math/rand"
	"testing"
)

func newTestEngine(seed int64) (*Engine, *GameState) {
	rng := rand.New(rand.NewSource(seed))
	return NewEngine(rng), NewGameState(rng)
}

func TestAdvanceNoOpWhenNotPlaying(t *testing.T) {
	e, s := newTestEngine(1)
	before := *s

	if events := e.Advance(s, ModeMulti, 2); events != nil {
		t.Fatalf("expected no events, got %v", events)
	}
	if *s != before {
		t.Fatalf("state changed while not playing: %+v != %+v", *s, before)
	}

	s.IsPlaying = true
	s.IsPaused = true
	before = *s
	if events := e.Advance(s, ModeMulti, 2); events != nil {
		t.Fatalf("expected no events while paused, got %v", events)
	}
	if *s != before {
		t.Fatalf("state changed while paused: %+v != %+v", *s, before)
	}
}

func TestAdvanceIntegratesPosition(t *testing.T) {
	e, s := newTestEngine(1)
	s.IsPlaying = true
	s.Ball.Position = Vec2{X: 400, Y: 300}
	s.Ball.Velocity = Vec2{X: 3, Y: -2}

	e.Advance(s, ModeMulti, 2)

	if s.Ball.Position.X != 403 || s.Ball.Position.Y != 298 {
		t.Fatalf("ball at (%v, %v), want (403, 298)", s.Ball.Position.X, s.Ball.Position.Y)
	}
}

func TestWallBounceClampsAndInverts(t *testing.T) {
	e, s := newTestEngine(1)
	s.IsPlaying = true
	s.Ball.Position = Vec2{X: 400, Y: 5}
	s.Ball.Velocity = Vec2{X: 3, Y: -6}

	events := e.Advance(s, ModeMulti, 2)

	if s.Ball.Position.Y != BallSize/2 {
		t.Fatalf("ball y = %v, want clamped to %v", s.Ball.Position.Y, BallSize/2)
	}
	if s.Ball.Velocity.Y != 6 {
		t.Fatalf("vy = %v, want 6", s.Ball.Velocity.Y)
	}
	// Wall bounces never amplify.
	if s.Ball.Velocity.X != 3 {
		t.Fatalf("vx = %v, want unchanged 3", s.Ball.Velocity.X)
	}
	if len(events) != 1 || events[0].Sound != CueWall || events[0].Side != SideNone {
		t.Fatalf("unexpected events: %+v", events)
	}

	// Bottom wall, mirrored.
	s.Ball.Position = Vec2{X: 400, Y: FieldHeight - 5}
	s.Ball.Velocity = Vec2{X: 3, Y: 6}
	e.Advance(s, ModeMulti, 2)
	if s.Ball.Position.Y != FieldHeight-BallSize/2 {
		t.Fatalf("ball y = %v, want %v", s.Ball.Position.Y, FieldHeight-BallSize/2)
	}
	if s.Ball.Velocity.Y != -6 {
		t.Fatalf("vy = %v, want -6", s.Ball.Velocity.Y)
	}
}

func TestLeftPaddleHitAmplifiesAndDeflects(t *testing.T) {
	e, s := newTestEngine(1)
	s.IsPlaying = true
	s.Paddles.Left = 250
	s.Ball.Position = Vec2{X: 25, Y: 275}
	s.Ball.Velocity = Vec2{X: -6, Y: 0}

	events := e.Advance(s, ModeMulti, 2)

	if s.Ball.Position.X != PaddleWidth+BallSize/2 {
		t.Fatalf("ball x = %v, want %v", s.Ball.Position.X, PaddleWidth+BallSize/2)
	}
	if got, want := s.Ball.Velocity.X, 6.0*SpeedRamp; math.Abs(got-want) > 1e-9 {
		t.Fatalf("vx = %v, want %v", got, want)
	}
	// hitPos = (275-250)/100 = 0.25 -> vy = (0.25-0.5)*6*2 = -3
	if got := s.Ball.Velocity.Y; math.Abs(got-(-3)) > 1e-9 {
		t.Fatalf("vy = %v, want -3", got)
	}

	if len(events) != 1 || events[0].Sound != CueHit || events[0].Side != SideLeft {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestRightPaddleHitMirrored(t *testing.T) {
	e, s := newTestEngine(1)
	s.IsPlaying = true
	s.Paddles.Right = 250
	s.Ball.Position = Vec2{X: FieldWidth - 25, Y: 325}
	s.Ball.Velocity = Vec2{X: 6, Y: 0}

	events := e.Advance(s, ModeMulti, 2)

	if s.Ball.Position.X != FieldWidth-PaddleWidth-BallSize/2 {
		t.Fatalf("ball x = %v, want %v", s.Ball.Position.X, FieldWidth-PaddleWidth-BallSize/2)
	}
	if got, want := s.Ball.Velocity.X, -6.0*SpeedRamp; math.Abs(got-want) > 1e-9 {
		t.Fatalf("vx = %v, want %v", got, want)
	}
	// hitPos = (325-250)/100 = 0.75 -> vy = (0.75-0.5)*6*2 = 3
	if got := s.Ball.Velocity.Y; math.Abs(got-3) > 1e-9 {
		t.Fatalf("vy = %v, want 3", got)
	}
	if len(events) != 1 || events[0].Side != SideRight {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestPaddleMissesOutsideSpan(t *testing.T) {
	e, s := newTestEngine(1)
	s.IsPlaying = true
	s.Paddles.Left = 0
	s.Ball.Position = Vec2{X: 25, Y: 500}
	s.Ball.Velocity = Vec2{X: -6, Y: 0}

	e.Advance(s, ModeMulti, 2)

	// Missed the paddle: no clamp, no amplification, still heading out.
	if s.Ball.Velocity.X != -6 {
		t.Fatalf("vx = %v, want -6", s.Ball.Velocity.X)
	}
	if s.Ball.Position.X != 19 {
		t.Fatalf("ball x = %v, want 19", s.Ball.Position.X)
	}
}

func TestScoringIncrementsAndResets(t *testing.T) {
	e, s := newTestEngine(1)
	s.IsPlaying = true
	s.Paddles.Left = 0
	s.Ball.Position = Vec2{X: 5, Y: 500}
	s.Ball.Velocity = Vec2{X: -6, Y: 0}

	events := e.Advance(s, ModeMulti, 2)

	if s.Scores.Right != 1 || s.Scores.Left != 0 {
		t.Fatalf("scores = %+v, want right 1", s.Scores)
	}
	if !s.IsPlaying || s.Winner != SideNone {
		t.Fatalf("game should continue: playing=%v winner=%q", s.IsPlaying, s.Winner)
	}
	if s.Ball.Position.X != FieldWidth/2 || s.Ball.Position.Y != FieldHeight/2 {
		t.Fatalf("ball not recentered: %+v", s.Ball.Position)
	}

	var haveScore, haveAgainst bool
	for _, ev := range events {
		if ev.Haptic == CueScore && ev.Side == SideRight {
			haveScore = true
		}
		if ev.Haptic == CueScoredAgainst && ev.Side == SideLeft {
			haveAgainst = true
		}
	}
	if !haveScore || !haveAgainst {
		t.Fatalf("missing score haptics: %+v", events)
	}
}

func TestWinFreezesState(t *testing.T) {
	e, s := newTestEngine(1)
	s.IsPlaying = true
	s.Scores.Right = WinScore - 1
	s.Paddles.Left = 0
	s.Ball.Position = Vec2{X: 5, Y: 500}
	s.Ball.Velocity = Vec2{X: -6, Y: 0}

	events := e.Advance(s, ModeMulti, 2)

	if s.Winner != SideRight || s.IsPlaying {
		t.Fatalf("want right winner and frozen, got winner=%q playing=%v", s.Winner, s.IsPlaying)
	}
	// On a win the ball is not reset; it stays where it crossed.
	if s.Ball.Position.X != -1 {
		t.Fatalf("ball x = %v, want -1", s.Ball.Position.X)
	}

	var haveWin, haveLose bool
	for _, ev := range events {
		if ev.Haptic == CueWin && ev.Side == SideRight {
			haveWin = true
		}
		if ev.Haptic == CueLose && ev.Side == SideLeft {
			haveLose = true
		}
	}
	if !haveWin || !haveLose {
		t.Fatalf("missing win/lose haptics: %+v", events)
	}

	// Further ticks are no-ops.
	frozen := *s
	for i := 0; i < 10; i++ {
		if events := e.Advance(s, ModeMulti, 2); events != nil {
			t.Fatalf("tick %d produced events after win: %+v", i, events)
		}
	}
	if *s != frozen {
		t.Fatalf("state drifted after win: %+v != %+v", *s, frozen)
	}
}

func TestSpeedCapPreservesDirection(t *testing.T) {
	e, s := newTestEngine(1)
	s.IsPlaying = true
	s.Ball.Position = Vec2{X: 400, Y: 300}
	s.Ball.Velocity = Vec2{X: 20, Y: 9}

	e.Advance(s, ModeMulti, 2)

	speed := s.Ball.Velocity.Magnitude()
	if speed > MaxBallSpeed+1e-9 {
		t.Fatalf("speed = %v, want <= %v", speed, MaxBallSpeed)
	}
	// Direction preserved: vx/vy ratio unchanged.
	if got, want := s.Ball.Velocity.X/s.Ball.Velocity.Y, 20.0/9.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("direction changed: ratio %v, want %v", got, want)
	}
}

func TestSpeedNeverExceedsCap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := NewEngine(rng)

	for i := 0; i < 500; i++ {
		s := NewGameState(rng)
		s.IsPlaying = true
		s.Ball.Position = Vec2{
			X: rng.Float64() * FieldWidth,
			Y: rng.Float64() * FieldHeight,
		}
		s.Ball.Velocity = Vec2{
			X: (rng.Float64() - 0.5) * 60,
			Y: (rng.Float64() - 0.5) * 60,
		}
		e.Advance(s, ModeMulti, 2)
		if speed := s.Ball.Velocity.Magnitude(); speed > MaxBallSpeed+1e-9 {
			t.Fatalf("iteration %d: speed %v exceeds cap", i, speed)
		}
	}
}

func TestAITracksBallWithDeadband(t *testing.T) {
	e, s := newTestEngine(1)
	s.IsPlaying = true
	s.Ball.Position = Vec2{X: 400, Y: 300}
	s.Ball.Velocity = Vec2{X: 0.001, Y: 0}
	s.Paddles.Right = 100

	e.Advance(s, ModeSingle, 1)

	// Target is ballY - PaddleHeight/2 = 250, far beyond the deadband.
	want := 100 + PaddleSpeed*AISpeedFactor
	if s.Paddles.Right != want {
		t.Fatalf("paddle = %v, want %v", s.Paddles.Right, want)
	}

	// Inside the deadband the paddle holds still.
	s.Paddles.Right = 250 + AIDeadband/2
	before := s.Paddles.Right
	e.Advance(s, ModeSingle, 1)
	if s.Paddles.Right != before {
		t.Fatalf("paddle moved inside deadband: %v", s.Paddles.Right)
	}
}

func TestAIOnlyRunsSingleModeWithOneHuman(t *testing.T) {
	for _, tc := range []struct {
		mode    Mode
		players int
	}{
		{ModeMulti, 2},
		{ModeMulti, 1},
		{ModeSingle, 2},
	} {
		e, s := newTestEngine(1)
		s.IsPlaying = true
		s.Ball.Position = Vec2{X: 400, Y: 500}
		s.Ball.Velocity = Vec2{X: 0.001, Y: 0}
		s.Paddles.Right = 100

		e.Advance(s, tc.mode, tc.players)
		if s.Paddles.Right != 100 {
			t.Fatalf("mode=%s players=%d: AI moved paddle to %v", tc.mode, tc.players, s.Paddles.Right)
		}
	}
}

func TestAdvanceDeterministicForSeed(t *testing.T) {
	e1, s1 := newTestEngine(7)
	e2, s2 := newTestEngine(7)
	s1.IsPlaying = true
	s2.IsPlaying = true

	for i := 0; i < 1000; i++ {
		e1.Advance(s1, ModeMulti, 2)
		e2.Advance(s2, ModeMulti, 2)
	}
	if *s1 != *s2 {
		t.Fatalf("same seed diverged: %+v != %+v", *s1, *s2)
	}
}

func TestLongRunInvariants(t *testing.T) {
	e, s := newTestEngine(99)
	s.IsPlaying = true

	prevLeft, prevRight := 0, 0
	for i := 0; i < 2000 && s.Winner == SideNone; i++ {
		e.Advance(s, ModeSingle, 1)

		if s.Ball.Position.Y < 0 || s.Ball.Position.Y > FieldHeight {
			t.Fatalf("tick %d: ball y %v out of bounds", i, s.Ball.Position.Y)
		}
		if s.Winner == SideNone && (s.Ball.Position.X < 0 || s.Ball.Position.X > FieldWidth) {
			t.Fatalf("tick %d: ball x %v out of bounds", i, s.Ball.Position.X)
		}
		if s.Scores.Left < prevLeft || s.Scores.Right < prevRight {
			t.Fatalf("tick %d: scores went backwards", i)
		}
		if s.Scores.Left+s.Scores.Right-prevLeft-prevRight > 1 {
			t.Fatalf("tick %d: more than one point in a single tick", i)
		}
		if s.Paddles.Right < 0 || s.Paddles.Right > FieldHeight-PaddleHeight {
			t.Fatalf("tick %d: AI paddle %v out of range", i, s.Paddles.Right)
		}
		prevLeft, prevRight = s.Scores.Left, s.Scores.Right
	}
}

func TestNewGameStateCentered(t *testing.T) {
	s := NewGameState(rand.New(rand.NewSource(3)))

	if s.Ball.Position.X != FieldWidth/2 || s.Ball.Position.Y != FieldHeight/2 {
		t.Fatalf("ball not centered: %+v", s.Ball.Position)
	}
	if math.Abs(s.Ball.Velocity.X) != BallSpeed {
		t.Fatalf("|vx| = %v, want %v", math.Abs(s.Ball.Velocity.X), BallSpeed)
	}
	if got := FieldHeight/2 - PaddleHeight/2; s.Paddles.Left != got || s.Paddles.Right != got {
		t.Fatalf("paddles not centered: %+v", s.Paddles)
	}
	if s.IsPlaying || s.IsPaused || s.Winner != SideNone {
		t.Fatalf("fresh state should be idle: %+v", s)
	}
	if s.Scores.Left != 0 || s.Scores.Right != 0 {
		t.Fatalf("fresh state has scores: %+v", s.Scores)
	}
}

func TestClampPaddle(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{-50, 0},
		{0, 0},
		{250, 250},
		{FieldHeight - PaddleHeight, FieldHeight - PaddleHeight},
		{FieldHeight, FieldHeight - PaddleHeight},
		{1e9, FieldHeight - PaddleHeight},
	} {
		if got := clampPaddle(tc.in); got != tc.want {
			t.Fatalf("clampPaddle(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
