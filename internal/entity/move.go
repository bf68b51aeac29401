package entity

import "time"

// Move is one entry of a game's append-only history.
type Move struct {
	ID         int64     `json:"id"`
	GameID     int64     `json:"game_id"`
	Player     Player    `json:"player"`
	Position   int       `json:"position"`
	MoveNumber int       `json:"move_number"`
	CreatedAt  time.Time `json:"created_at"`
}
