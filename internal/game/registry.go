package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sender delivers a typed message to a single connection. The websocket hub
// implements it; tests substitute a recorder.
type Sender interface {
	Send(connID, msgType string, data any)
}

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room full")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrNoFreePin        = errors.New("no free pin available")
)

const defaultPinMaxAttempts = 10000

// roomEventsChannel is the redis pub/sub channel lifecycle events go to.
const roomEventsChannel = "room_events"

// Registry owns the live rooms, keyed by PIN. It hands out unique 4-digit
// PINs on creation and optionally publishes lifecycle events to redis.
type Registry struct {
	mu             sync.RWMutex
	rooms          map[string]*Room
	rng            *rand.Rand
	sender         Sender
	rdb            *redis.Client
	maxPinAttempts int
}

// NewRegistry builds a registry. rdb may be nil, which disables event
// publishing. maxPinAttempts <= 0 selects the default.
func NewRegistry(sender Sender, rdb *redis.Client, maxPinAttempts int) *Registry {
	if maxPinAttempts <= 0 {
		maxPinAttempts = defaultPinMaxAttempts
	}
	return &Registry{
		rooms:          make(map[string]*Room),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		sender:         sender,
		rdb:            rdb,
		maxPinAttempts: maxPinAttempts,
	}
}

// CreateRoom allocates a fresh PIN, registers a new room owned by the given
// display connection, and returns it.
func (reg *Registry) CreateRoom(mode Mode, displayConn string) (*Room, error) {
	if mode != ModeMulti {
		mode = ModeSingle
	}

	reg.mu.Lock()
	pin, err := reg.generatePinLocked()
	if err != nil {
		reg.mu.Unlock()
		return nil, err
	}
	room := newRoom(pin, mode, displayConn, reg)
	reg.rooms[pin] = room
	reg.mu.Unlock()

	log.Printf("[REGISTRY] Room %s created (mode=%s)", pin, mode)
	reg.publishEvent("room_created", map[string]any{"pin": pin, "mode": mode})
	return room, nil
}

// Lookup returns the room for a PIN, if any.
func (reg *Registry) Lookup(pin string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[pin]
	return room, ok
}

// Remove deregisters a room by PIN. The caller is responsible for closing the
// room itself.
func (reg *Registry) Remove(pin string) {
	reg.mu.Lock()
	_, ok := reg.rooms[pin]
	delete(reg.rooms, pin)
	reg.mu.Unlock()

	if ok {
		log.Printf("[REGISTRY] Room %s removed", pin)
		reg.publishEvent("room_closed", map[string]any{"pin": pin})
	}
}

// Stats returns the number of live rooms and connected controllers.
func (reg *Registry) Stats() (rooms, players int) {
	reg.mu.RLock()
	snapshot := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		snapshot = append(snapshot, r)
	}
	reg.mu.RUnlock()

	for _, r := range snapshot {
		players += r.PlayerCount()
	}
	return len(snapshot), players
}

// generatePinLocked draws random 4-digit PINs until one is unused. The
// attempt cap turns a (near-)full PIN space into an error instead of a spin.
func (reg *Registry) generatePinLocked() (string, error) {
	for i := 0; i < reg.maxPinAttempts; i++ {
		pin := fmt.Sprintf("%d", 1000+reg.rng.Intn(9000))
		if _, taken := reg.rooms[pin]; !taken {
			return pin, nil
		}
	}
	return "", ErrNoFreePin
}

// publishEvent pushes a lifecycle event to the room events channel. With no
// redis client configured it is a no-op; publish failures are logged and
// swallowed, gameplay never depends on them.
func (reg *Registry) publishEvent(eventType string, payload map[string]any) {
	if reg.rdb == nil {
		return
	}
	payload["event"] = eventType
	payload["ts"] = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[EVENTS] Failed to encode %s event: %v", eventType, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := reg.rdb.Publish(ctx, roomEventsChannel, body).Err(); err != nil {
		log.Printf("[EVENTS] Failed to publish %s event: %v", eventType, err)
	}
}
