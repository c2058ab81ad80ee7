package server

import (
	"encoding/json"

	"github.com/arjun115/freecell/internal/game/cards"
	"github.com/arjun115/freecell/internal/game/piles"
	"github.com/arjun115/freecell/internal/game/rules"
)

// Message types accepted from clients.
const (
	MsgNewGame  = "new_game"
	MsgCanDrag  = "can_drag"
	MsgPlace    = "place"
	MsgAutoMove = "auto_move"
	MsgDraw     = "draw"
	MsgUndo     = "undo"
	MsgState    = "state"
)

// Message types sent to clients.
const (
	MsgGameState      = "game_state"
	MsgEvents         = "events"
	MsgPoints         = "points"
	MsgFinished       = "finished"
	MsgDragResult     = "drag_result"
	MsgPlaceResult    = "place_result"
	MsgAutoMoveResult = "auto_move_result"
	MsgDrawResult     = "draw_result"
	MsgUndoResult     = "undo_result"
	MsgError          = "error"
)

// Inbound is a frame read from a client. Data is decoded per type.
type Inbound struct {
	Type   string          `json:"type"`
	GameID string          `json:"game_id,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Outbound is a frame written to a client.
type Outbound struct {
	Type   string `json:"type"`
	GameID string `json:"game_id,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type cardRequest struct {
	CardID *cards.CardID `json:"card_id"`
}

type placeRequest struct {
	CardID cards.CardID    `json:"card_id"`
	Field  piles.FieldKind `json:"field"`
	Number int             `json:"number"`
}

// WireEvent is the JSON form of a rules.Event.
type WireEvent struct {
	Type    rules.EventType `json:"type"`
	Card    cards.Card      `json:"card"`
	To      *piles.Location `json:"to,omitempty"`
	From    *piles.Location `json:"from,omitempty"`
	Flipped *bool           `json:"flipped,omitempty"`
	Prev    *bool           `json:"prev,omitempty"`
}

// EncodeBatch converts a batch to its wire form, keeping event order.
func EncodeBatch(batch rules.Batch) []WireEvent {
	out := make([]WireEvent, 0, len(batch))
	for _, ev := range batch {
		switch e := ev.(type) {
		case rules.MoveEvent:
			to, from := e.To, e.From
			out = append(out, WireEvent{Type: e.Type(), Card: e.Card, To: &to, From: &from})
		case rules.FlipEvent:
			flipped, prev := e.Flipped, e.Prev
			out = append(out, WireEvent{Type: e.Type(), Card: e.Card, Flipped: &flipped, Prev: &prev})
		}
	}
	return out
}

type dragResult struct {
	CardID cards.CardID `json:"card_id"`
	OK     bool         `json:"ok"`
	Cards  []cards.Card `json:"cards"`
}

type placeResult struct {
	CardID cards.CardID `json:"card_id"`
	OK     bool         `json:"ok"`
}

type okResult struct {
	OK bool `json:"ok"`
}

type pointsUpdate struct {
	Delta int `json:"delta"`
	Score int `json:"score"`
}

type errorPayload struct {
	Message string `json:"message"`
}
