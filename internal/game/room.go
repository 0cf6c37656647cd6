package game

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

// Participant is one controller connection bound to a paddle.
type Participant struct {
	ConnID string
	Side   Side
	Name   string
	Number int // 1-based join order
}

// Room is one game session: a display connection, up to two controllers, and
// the authoritative game state advanced by a fixed-rate tick loop.
//
// Everything mutable sits behind mu. The tick loop and inbound client events
// serialize on it, so a paddle write can never tear a concurrently reading
// tick. Rooms share no state, so rooms never block each other.
type Room struct {
	Pin         string
	Mode        Mode
	DisplayConn string

	mu           sync.Mutex
	participants []*Participant
	state        *GameState
	engine       *Engine
	rng          *rand.Rand
	stopTick     chan struct{}
	closed       bool

	tickInterval time.Duration
	sender       Sender
	registry     *Registry
}

func newRoom(pin string, mode Mode, displayConn string, reg *Registry) *Room {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Room{
		Pin:          pin,
		Mode:         mode,
		DisplayConn:  displayConn,
		state:        NewGameState(rng),
		engine:       NewEngine(rng),
		rng:          rng,
		tickInterval: time.Second / TickRate,
		sender:       reg.sender,
		registry:     reg,
	}
}

// Join adds a controller to the room, assigning its side by arrival order and
// defaulting an empty name to P<number>. The display is notified of the new
// player; the joiner's own joinSuccess is sent by the protocol layer, which
// owns the connection's role binding.
func (r *Room) Join(connID, name string) (*Participant, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	if len(r.participants) >= r.Mode.MaxPlayers() {
		r.mu.Unlock()
		return nil, ErrRoomFull
	}

	number := len(r.participants) + 1
	side := SideLeft
	if number == 2 {
		side = SideRight
	}
	if name == "" {
		name = fmt.Sprintf("P%d", number)
	}

	p := &Participant{ConnID: connID, Side: side, Name: name, Number: number}
	r.participants = append(r.participants, p)
	display := r.DisplayConn
	r.mu.Unlock()

	log.Printf("[ROOM] Player %q joined room %s as %s", name, r.Pin, side)
	r.sender.Send(display, "playerJoined", map[string]any{
		"playerNumber": number,
		"side":         side,
		"playerName":   name,
		"mode":         r.Mode,
	})
	return p, nil
}

// Start begins (or restarts) the simulation: participants must match the
// mode's capacity, the playing flags are reset, and the tick loop is started.
// A previously running loop is replaced, never doubled.
func (r *Room) Start() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRoomNotFound
	}
	if len(r.participants) < r.Mode.MaxPlayers() {
		r.mu.Unlock()
		return ErrNotEnoughPlayers
	}

	r.state.IsPlaying = true
	r.state.IsPaused = false
	r.state.Winner = SideNone

	if r.stopTick != nil {
		close(r.stopTick)
	}
	r.stopTick = make(chan struct{})
	go r.tickLoop(r.stopTick)

	conns := r.everyoneLocked()
	r.mu.Unlock()

	log.Printf("[ROOM] Game started in room %s", r.Pin)
	for _, id := range conns {
		r.sender.Send(id, "gameStarted", nil)
	}
	return nil
}

// MovePaddle writes a clamped paddle position for the connection's assigned
// side. Connections without a side in this room are ignored.
func (r *Room) MovePaddle(connID string, position float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.participantLocked(connID)
	if p == nil {
		return
	}
	pos := clampPaddle(position)
	if p.Side == SideLeft {
		r.state.Paddles.Left = pos
	} else {
		r.state.Paddles.Right = pos
	}
}

// TogglePause flips the pause flag and tells the display and every
// participant.
func (r *Room) TogglePause() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.state.IsPaused = !r.state.IsPaused
	paused := r.state.IsPaused
	conns := r.everyoneLocked()
	r.mu.Unlock()

	for _, id := range conns {
		r.sender.Send(id, "gamePaused", paused)
	}
}

// Restart replaces the game state wholesale: scores zero, ball centered,
// winner cleared, not playing. A running tick loop keeps broadcasting; the
// physics step stays a no-op until the next Start.
func (r *Room) Restart() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.state = NewGameState(r.rng)
	snap := snapshotOf(r.state)
	conns := r.everyoneLocked()
	r.mu.Unlock()

	payload := StatePayload{Snapshot: snap, Constants: FieldConstants()}
	for _, id := range conns {
		r.sender.Send(id, "gameState", payload)
		r.sender.Send(id, "gameRestarted", nil)
	}
	log.Printf("[ROOM] Room %s restarted", r.Pin)
}

// UpdateName renames a participant and tells the display.
func (r *Room) UpdateName(connID, name string) {
	if name == "" {
		return
	}
	r.mu.Lock()
	p := r.participantLocked(connID)
	if p == nil || r.closed {
		r.mu.Unlock()
		return
	}
	p.Name = name
	side := p.Side
	display := r.DisplayConn
	r.mu.Unlock()

	r.sender.Send(display, "playerNameUpdate", map[string]any{
		"side": side,
		"name": name,
	})
}

// RemoveParticipant handles a controller leaving. The display learns the
// remaining count and side; an in-progress game is force-paused, with the
// pause notice going to the display only.
func (r *Room) RemoveParticipant(connID string) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}

	side := SideNone
	for i, p := range r.participants {
		if p.ConnID == connID {
			side = p.Side
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			break
		}
	}
	if side == SideNone {
		r.mu.Unlock()
		return
	}

	remaining := len(r.participants)
	display := r.DisplayConn
	forcedPause := false
	if r.state.IsPlaying {
		r.state.IsPaused = true
		forcedPause = true
	}
	r.mu.Unlock()

	log.Printf("[ROOM] Player left room %s (%s), %d remaining", r.Pin, side, remaining)
	r.sender.Send(display, "playerLeft", map[string]any{
		"playersRemaining": remaining,
		"side":             side,
	})
	if forcedPause {
		r.sender.Send(display, "gamePaused", true)
	}
}

// Close tears the room down: the tick loop is stopped, every participant is
// told the room closed, and no further tick can run. The caller deregisters
// the room from the registry.
func (r *Room) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	if r.stopTick != nil {
		close(r.stopTick)
		r.stopTick = nil
	}
	parts := make([]*Participant, len(r.participants))
	copy(parts, r.participants)
	r.mu.Unlock()

	for _, p := range parts {
		r.sender.Send(p.ConnID, "roomClosed", nil)
	}
	log.Printf("[ROOM] Room %s closed", r.Pin)
}

// Snapshot returns an immutable copy of the current game state.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshotOf(r.state)
}

// PlayerCount returns the number of connected controllers.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

func (r *Room) participantLocked(connID string) *Participant {
	for _, p := range r.participants {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

// everyoneLocked returns the display plus all participant connections.
func (r *Room) everyoneLocked() []string {
	conns := make([]string, 0, len(r.participants)+1)
	conns = append(conns, r.DisplayConn)
	for _, p := range r.participants {
		conns = append(conns, p.ConnID)
	}
	return conns
}

func (r *Room) tickLoop(stop chan struct{}) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

// tick advances the simulation one step and fans out the state snapshot and
// any sound/haptic events. Physics runs under the room lock; delivery happens
// outside it so a slow connection can never stall the simulation.
func (r *Room) tick() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	wasPlaying := r.state.IsPlaying
	events := r.engine.Advance(r.state, r.Mode, len(r.participants))
	won := wasPlaying && r.state.Winner != SideNone
	snap := snapshotOf(r.state)
	display := r.DisplayConn
	parts := make([]*Participant, len(r.participants))
	copy(parts, r.participants)
	r.mu.Unlock()

	payload := StatePayload{Snapshot: snap, Constants: FieldConstants()}
	r.sender.Send(display, "gameState", payload)
	for _, p := range parts {
		r.sender.Send(p.ConnID, "gameState", payload)
	}

	for _, ev := range events {
		if ev.Sound != "" {
			r.sender.Send(display, "playSound", ev.Sound)
		}
		if ev.Haptic == "" {
			continue
		}
		for _, p := range parts {
			if ev.Side == SideNone || ev.Side == p.Side {
				r.sender.Send(p.ConnID, "haptic", ev.Haptic)
			}
		}
	}

	if won {
		log.Printf("[ROOM] Game over in room %s, winner=%s", r.Pin, snap.Winner)
		r.registry.publishEvent("game_over", map[string]any{
			"pin":    r.Pin,
			"winner": snap.Winner,
			"scores": snap.Scores,
		})
	}
}
