package game

import "math/rand"

// Side identifies a paddle. Sides are assigned by join order (first joiner
// takes the left paddle) and never change for a participant's time in a room.
type Side string

const (
	SideNone  Side = ""
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opposite returns the other side, or SideNone for SideNone.
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	}
	return SideNone
}

// Mode selects between one human versus the AI and two humans.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeMulti  Mode = "multi"
)

// MaxPlayers returns the controller capacity for the mode.
func (m Mode) MaxPlayers() int {
	if m == ModeMulti {
		return 2
	}
	return 1
}

// Ball is the ball's physics state.
type Ball struct {
	Position Vec2
	Velocity Vec2
}

// Paddles holds the vertical offset of each paddle's top edge.
// Invariant: 0 <= offset <= FieldHeight-PaddleHeight, clamped on every write.
type Paddles struct {
	Left  float64
	Right float64
}

// Scores count points per side. They only ever increase until one side
// reaches WinScore.
type Scores struct {
	Left  int
	Right int
}

// GameState is the authoritative per-room simulation state. The ball, paddle
// and score fields are mutated only by Engine.Advance; the control flags only
// by the room's operations. Either way the room's lock is held.
type GameState struct {
	Ball      Ball
	Paddles   Paddles
	Scores    Scores
	IsPlaying bool
	IsPaused  bool
	Winner    Side
}

// NewGameState returns a fresh state: ball centered with a randomized launch
// direction, paddles centered, scores zero, not playing.
func NewGameState(rng *rand.Rand) *GameState {
	s := &GameState{
		Paddles: Paddles{
			Left:  FieldHeight/2 - PaddleHeight/2,
			Right: FieldHeight/2 - PaddleHeight/2,
		},
	}
	resetBall(s, rng)
	return s
}

// resetBall recenters the ball and relaunches it with a random horizontal
// sign and a bounded random vertical component.
func resetBall(s *GameState, rng *rand.Rand) {
	dir := 1.0
	if rng.Float64() < 0.5 {
		dir = -1
	}
	s.Ball.Position = Vec2{X: FieldWidth / 2, Y: FieldHeight / 2}
	s.Ball.Velocity = Vec2{
		X: BallSpeed * dir,
		Y: BallSpeed * (rng.Float64() - 0.5),
	}
}

// clampPaddle clamps a requested paddle offset into the playable range.
func clampPaddle(y float64) float64 {
	if y < 0 {
		return 0
	}
	if y > FieldHeight-PaddleHeight {
		return FieldHeight - PaddleHeight
	}
	return y
}
