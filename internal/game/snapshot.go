package game

// Snapshot is an immutable copy of a room's game state assembled for
// broadcast, decoupled from the mutable internal representation.
type Snapshot struct {
	Ball      BallSnapshot    `json:"ball"`
	Paddles   PaddlesSnapshot `json:"paddles"`
	Scores    ScoresSnapshot  `json:"scores"`
	IsPlaying bool            `json:"isPlaying"`
	IsPaused  bool            `json:"isPaused"`
	Winner    Side            `json:"winner"`
}

// BallSnapshot flattens the ball for the wire, matching the clients'
// {x, y, vx, vy} shape.
type BallSnapshot struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

type PaddlesSnapshot struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

type ScoresSnapshot struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Constants is the field geometry payload clients use to scale their own
// rendering. JSON keys match the client constants verbatim.
type Constants struct {
	GameWidth    float64 `json:"GAME_WIDTH"`
	GameHeight   float64 `json:"GAME_HEIGHT"`
	PaddleHeight float64 `json:"PADDLE_HEIGHT"`
	PaddleWidth  float64 `json:"PADDLE_WIDTH"`
	BallSize     float64 `json:"BALL_SIZE"`
}

// FieldConstants returns the constants payload sent to clients.
func FieldConstants() Constants {
	return Constants{
		GameWidth:    FieldWidth,
		GameHeight:   FieldHeight,
		PaddleHeight: PaddleHeight,
		PaddleWidth:  PaddleWidth,
		BallSize:     BallSize,
	}
}

// StatePayload is the per-tick broadcast: the snapshot plus field constants.
type StatePayload struct {
	Snapshot
	Constants Constants `json:"constants"`
}

func snapshotOf(s *GameState) Snapshot {
	return Snapshot{
		Ball: BallSnapshot{
			X:  s.Ball.Position.X,
			Y:  s.Ball.Position.Y,
			VX: s.Ball.Velocity.X,
			VY: s.Ball.Velocity.Y,
		},
		Paddles:   PaddlesSnapshot{Left: s.Paddles.Left, Right: s.Paddles.Right},
		Scores:    ScoresSnapshot{Left: s.Scores.Left, Right: s.Scores.Right},
		IsPlaying: s.IsPlaying,
		IsPaused:  s.IsPaused,
		Winner:    s.Winner,
	}
}
