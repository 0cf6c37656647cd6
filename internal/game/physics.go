package game

import (
	"math"
	"math/rand"
)

// Sound and haptic cue names understood by the clients.
const (
	CueWall          = "wall"
	CueHit           = "hit"
	CueScore         = "score"
	CueScoredAgainst = "scored_against"
	CueWin           = "win"
	CueLose          = "lose"
)

// TickEvent records a discrete effect produced while advancing the
// simulation: a sound cue for the display and/or a haptic cue for
// controllers.
type TickEvent struct {
	Sound  string // played on the display; empty if none
	Haptic string // haptic cue for controllers; empty if none
	Side   Side   // haptic recipient; SideNone means every participant
}

// Engine advances pong game states one fixed timestep at a time. It is
// deterministic apart from the ball reset after a score, which draws from rng.
type Engine struct {
	rng *rand.Rand
}

func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// Advance runs one simulation step: integration, wall bounce, paddle
// collisions, scoring and win detection, the AI step, and the speed cap, in
// that order. Each step sees the previous step's effects. It is a no-op while
// the game is not playing or is paused.
func (e *Engine) Advance(s *GameState, mode Mode, playerCount int) []TickEvent {
	if !s.IsPlaying || s.IsPaused {
		return nil
	}

	var events []TickEvent
	ball := &s.Ball

	ball.Position = ball.Position.Plus(ball.Velocity)

	// Top/bottom wall bounce: clamp to the bound and invert vertical velocity.
	if ball.Position.Y <= BallSize/2 {
		ball.Position.Y = BallSize / 2
		ball.Velocity.Y = math.Abs(ball.Velocity.Y)
		events = append(events, TickEvent{Sound: CueWall, Haptic: CueWall, Side: SideNone})
	} else if ball.Position.Y >= FieldHeight-BallSize/2 {
		ball.Position.Y = FieldHeight - BallSize/2
		ball.Velocity.Y = -math.Abs(ball.Velocity.Y)
		events = append(events, TickEvent{Sound: CueWall, Haptic: CueWall, Side: SideNone})
	}

	// Left paddle. The 1.02 ratchet applies on paddle contact only, so ball
	// speed grows from rallies but never from wall bounces. The deflection
	// angle comes from where on the paddle the contact occurred.
	if ball.Position.X <= PaddleWidth+BallSize/2 &&
		ball.Position.Y >= s.Paddles.Left &&
		ball.Position.Y <= s.Paddles.Left+PaddleHeight {
		ball.Position.X = PaddleWidth + BallSize/2
		ball.Velocity.X = math.Abs(ball.Velocity.X) * SpeedRamp

		hitPos := (ball.Position.Y - s.Paddles.Left) / PaddleHeight
		ball.Velocity.Y = (hitPos - 0.5) * BallSpeed * 2

		events = append(events, TickEvent{Sound: CueHit, Haptic: CueHit, Side: SideLeft})
	}

	// Right paddle, mirrored.
	if ball.Position.X >= FieldWidth-PaddleWidth-BallSize/2 &&
		ball.Position.Y >= s.Paddles.Right &&
		ball.Position.Y <= s.Paddles.Right+PaddleHeight {
		ball.Position.X = FieldWidth - PaddleWidth - BallSize/2
		ball.Velocity.X = -math.Abs(ball.Velocity.X) * SpeedRamp

		hitPos := (ball.Position.Y - s.Paddles.Right) / PaddleHeight
		ball.Velocity.Y = (hitPos - 0.5) * BallSpeed * 2

		events = append(events, TickEvent{Sound: CueHit, Haptic: CueHit, Side: SideRight})
	}

	// Scoring. The win check runs before any reset: on a win the ball stays
	// where it crossed and the simulation is never re-entered.
	if ball.Position.X <= 0 {
		events = append(events, e.score(s, SideRight)...)
	} else if ball.Position.X >= FieldWidth {
		events = append(events, e.score(s, SideLeft)...)
	}

	// The AI drives the right paddle only in single mode while exactly one
	// human is connected.
	if mode == ModeSingle && playerCount == 1 {
		e.stepAI(s)
	}

	// Cap ball speed, preserving direction.
	if speed := ball.Velocity.Magnitude(); speed > MaxBallSpeed {
		ball.Velocity = ball.Velocity.Times(MaxBallSpeed / speed)
	}

	return events
}

func (e *Engine) score(s *GameState, scorer Side) []TickEvent {
	counter := &s.Scores.Left
	if scorer == SideRight {
		counter = &s.Scores.Right
	}
	*counter++

	events := []TickEvent{
		{Sound: CueScore, Haptic: CueScore, Side: scorer},
		{Haptic: CueScoredAgainst, Side: scorer.Opposite()},
	}

	if *counter >= WinScore {
		s.IsPlaying = false
		s.Winner = scorer
		return append(events,
			TickEvent{Haptic: CueWin, Side: scorer},
			TickEvent{Haptic: CueLose, Side: scorer.Opposite()},
		)
	}

	resetBall(s, e.rng)
	return events
}

// stepAI moves the right paddle toward the ball at AISpeedFactor of the human
// paddle speed, only engaging once the positional error exceeds the deadband
// so the paddle doesn't jitter around the ball.
func (e *Engine) stepAI(s *GameState) {
	target := s.Ball.Position.Y - PaddleHeight/2
	diff := target - s.Paddles.Right
	if math.Abs(diff) <= AIDeadband {
		return
	}

	step := PaddleSpeed * AISpeedFactor
	if diff > 0 {
		s.Paddles.Right = math.Min(s.Paddles.Right+step, FieldHeight-PaddleHeight)
	} else {
		s.Paddles.Right = math.Max(s.Paddles.Right-step, 0)
	}
}
