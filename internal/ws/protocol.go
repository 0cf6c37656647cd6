package ws

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/playpong/backend/internal/game"
)

// WSMessage is the inbound wire frame.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (c *Client) handleMessage(hub *Hub, registry *game.Registry, raw []byte) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("[WS] Bad frame from connection %s: %v", c.id, err)
		return
	}

	switch msg.Type {
	case "createRoom":
		c.handleCreateRoom(hub, registry, msg.Data)
	case "joinRoom":
		c.handleJoinRoom(hub, registry, msg.Data)
	case "startGame":
		c.handleStartGame(hub, registry)
	case "paddleMove":
		var data paddleMoveData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		if room, ok := c.room(registry); ok {
			room.MovePaddle(c.id, data.Position)
		}
	case "pauseGame":
		if room, ok := c.room(registry); ok {
			room.TogglePause()
		}
	case "restartGame":
		if room, ok := c.room(registry); ok {
			room.Restart()
		}
	case "updateName":
		var data updateNameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return
		}
		if room, ok := c.room(registry); ok {
			room.UpdateName(c.id, data.Name)
		}
	default:
		log.Printf("[WS] Unknown message type %q from connection %s", msg.Type, c.id)
	}
}

func (c *Client) handleCreateRoom(hub *Hub, registry *game.Registry, raw json.RawMessage) {
	if c.role != roleNone {
		return
	}

	var data createRoomData
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return
		}
	}

	room, err := registry.CreateRoom(data.Mode, c.id)
	if err != nil {
		hub.Send(c.id, "error", errorData{Message: "could not create room"})
		return
	}

	c.role = roleDisplay
	c.pin = room.Pin

	hub.Send(c.id, "roomCreated", roomCreatedData{
		Pin:       room.Pin,
		Mode:      room.Mode,
		GameState: room.Snapshot(),
		Constants: game.FieldConstants(),
	})
}

func (c *Client) handleJoinRoom(hub *Hub, registry *game.Registry, raw json.RawMessage) {
	if c.role != roleNone {
		return
	}

	var data joinRoomData
	if err := json.Unmarshal(raw, &data); err != nil {
		return
	}

	room, ok := registry.Lookup(data.Pin)
	if !ok {
		hub.Send(c.id, "joinError", errorData{Message: "INVALID PIN"})
		return
	}

	p, err := room.Join(c.id, data.Name)
	if err != nil {
		if errors.Is(err, game.ErrRoomFull) {
			hub.Send(c.id, "joinError", errorData{Message: "ROOM FULL"})
		} else {
			hub.Send(c.id, "joinError", errorData{Message: "INVALID PIN"})
		}
		return
	}

	c.role = roleController
	c.pin = room.Pin
	c.side = p.Side

	hub.Send(c.id, "joinSuccess", joinSuccessData{
		Side:         p.Side,
		PlayerNumber: p.Number,
		Mode:         room.Mode,
		GameState:    room.Snapshot(),
		Constants:    game.FieldConstants(),
	})
}

func (c *Client) handleStartGame(hub *Hub, registry *game.Registry) {
	room, ok := c.room(registry)
	if !ok {
		return
	}

	if err := room.Start(); err != nil {
		if errors.Is(err, game.ErrNotEnoughPlayers) {
			msg := "WAITING FOR PLAYER"
			if room.Mode == game.ModeMulti {
				msg = "WAITING FOR P2"
			}
			hub.Send(c.id, "error", errorData{Message: msg})
		}
		return
	}
}

// room resolves the client's bound room. Unbound connections and stale pins
// are silently ignored.
func (c *Client) room(registry *game.Registry) (*game.Room, bool) {
	if c.pin == "" {
		return nil, false
	}
	return registry.Lookup(c.pin)
}

// handleDisconnect tears down whatever the connection owned. A display going
// away closes the whole room; a controller going away leaves the room open.
func (c *Client) handleDisconnect(registry *game.Registry) {
	if c.pin == "" {
		return
	}
	room, ok := registry.Lookup(c.pin)
	if !ok {
		return
	}

	switch c.role {
	case roleDisplay:
		room.Close()
		registry.Remove(c.pin)
	case roleController:
		room.RemoveParticipant(c.id)
	}
}
