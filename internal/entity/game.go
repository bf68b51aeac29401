package entity

import (
	"fmt"
	"time"
)

type Status uint8

const (
	StatusInProgress Status = iota + 1
	StatusCompleted
	StatusDraw
)

var statusNames = map[Status]string{
	StatusInProgress: "in_progress",
	StatusCompleted:  "completed",
	StatusDraw:       "draw",
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (that Status) String() string {
	if name, ok := statusNames[that]; ok {
		return name
	}

	return fmt.Sprintf("status(%d)", uint8(that))
}

func (that Status) MarshalText() ([]byte, error) {
	if _, ok := statusNames[that]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, that)
	}

	return []byte(that.String()), nil
}

func (that *Status) UnmarshalText(text []byte) error {
	status, err := ParseStatus(string(text))
	if err != nil {
		return err
	}

	*that = status

	return nil
}

// Game is the aggregate root; its moves are loaded separately by game ID.
type Game struct {
	ID            int64     `json:"id"`
	Board         Board     `json:"board"`
	CurrentPlayer Player    `json:"current_player"`
	Status        Status    `json:"status"`
	Winner        *Player   `json:"winner"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewGame returns a game in its initial state, without identity or timestamps.
func NewGame() *Game {
	return &Game{
		Board:         Board{},
		CurrentPlayer: PlayerX,
		Status:        StatusInProgress,
	}
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

// IsTerminal reports whether the game accepts no more moves.
func (that *Game) IsTerminal() bool {
	return that.Status == StatusCompleted || that.Status == StatusDraw
}
