package ws

import "github.com/playpong/backend/internal/game"

// Inbound payloads.
type createRoomData struct {
	Mode game.Mode `json:"mode"`
}

type joinRoomData struct {
	Pin  string `json:"pin"`
	Name string `json:"name"`
}

type paddleMoveData struct {
	Position float64 `json:"position"`
}

type updateNameData struct {
	Name string `json:"name"`
}

// Outbound payloads.
type roomCreatedData struct {
	Pin       string         `json:"pin"`
	Mode      game.Mode      `json:"mode"`
	GameState game.Snapshot  `json:"gameState"`
	Constants game.Constants `json:"constants"`
}

type joinSuccessData struct {
	Side         game.Side      `json:"side"`
	PlayerNumber int            `json:"playerNumber"`
	Mode         game.Mode      `json:"mode"`
	GameState    game.Snapshot  `json:"gameState"`
	Constants    game.Constants `json:"constants"`
}

type errorData struct {
	Message string `json:"message"`
}
