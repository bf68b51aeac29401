package entity

import "fmt"

// Player is the mark a participant places. Turn order always starts at PlayerX.
type Player uint8

const (
	PlayerX Player = iota + 1
	PlayerO
)

func ParsePlayer(s string) (Player, error) {
	switch s {
	case "x", "X":
		return PlayerX, nil
	case "o", "O":
		return PlayerO, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPlayer, s)
	}
}

// Cell returns the cell value holding this player's mark.
func (that Player) Cell() Cell {
	switch that {
	case PlayerX:
		return CellX
	case PlayerO:
		return CellO
	default:
		panic(fmt.Sprintf("entity: unknown player %d", that))
	}
}

// String returns the storage spelling: "x" or "o".
func (that Player) String() string {
	switch that {
	case PlayerX, PlayerO:
		return string(that.Cell().mark())
	default:
		return fmt.Sprintf("player(%d)", uint8(that))
	}
}

func (that Player) MarshalText() ([]byte, error) {
	if that != PlayerX && that != PlayerO {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayer, that)
	}

	return []byte(that.String()), nil
}

func (that *Player) UnmarshalText(text []byte) error {
	player, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}

	*that = player

	return nil
}
