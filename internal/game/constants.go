package game

// Gameplay and field constants. All geometry is in dimensionless server
// units; display and controller clients scale these to their own canvas,
// so the values sent over the wire MUST match what the frontends expect.
const (
	FieldWidth   = 800.0
	FieldHeight  = 600.0
	PaddleHeight = 100.0
	PaddleWidth  = 15.0
	BallSize     = 15.0

	BallSpeed    = 6.0  // base launch speed after a reset
	PaddleSpeed  = 8.0  // human paddle speed; the AI runs at a fraction of it
	MaxBallSpeed = 15.0 // hard cap on ball speed
	SpeedRamp    = 1.02 // applied on paddle contact only, never on wall bounce

	AISpeedFactor = 0.7
	AIDeadband    = 10.0 // positional error below which the AI stays put

	WinScore = 10

	TickRate = 60 // simulation ticks per second
)
