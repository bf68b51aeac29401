package entity

import (
	"errors"
	"fmt"
	"strings"
)

// BoardSize is the number of cells on the board.
const BoardSize = 9

var (
	ErrInvalidBoard  = errors.New("invalid board")
	ErrInvalidPlayer = errors.New("invalid player")
	ErrInvalidStatus = errors.New("invalid game status")
)

type Cell uint8

const (
	CellEmpty Cell = iota
	CellX
	CellO
)

const (
	emptyMark = '-'
	xMark     = 'x'
	oMark     = 'o'
)

func (that Cell) mark() byte {
	switch that {
	case CellX:
		return xMark
	case CellO:
		return oMark
	default:
		return emptyMark
	}
}

// Board holds the 9 cells in row-major order:
//
//	0 1 2
//	3 4 5
//	6 7 8
type Board [BoardSize]Cell

// String returns the storage form of the board: 9 characters of '-', 'x' or 'o'.
func (that Board) String() string {
	var sb strings.Builder
	sb.Grow(BoardSize)

	for _, cell := range that {
		sb.WriteByte(cell.mark())
	}

	return sb.String()
}

// ParseBoard is the inverse of Board.String.
func ParseBoard(s string) (Board, error) {
	var board Board

	if len(s) != BoardSize {
		return board, fmt.Errorf("%w: length %d", ErrInvalidBoard, len(s))
	}

	for i := range BoardSize {
		switch s[i] {
		case emptyMark:
			board[i] = CellEmpty
		case xMark:
			board[i] = CellX
		case oMark:
			board[i] = CellO
		default:
			return Board{}, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidBoard, s[i], i)
		}
	}

	return board, nil
}

// MustParseBoard is ParseBoard for literals known to be valid.
func MustParseBoard(s string) Board {
	board, err := ParseBoard(s)
	if err != nil {
		panic(err)
	}

	return board
}

func (that Board) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Board) UnmarshalText(text []byte) error {
	board, err := ParseBoard(string(text))
	if err != nil {
		return err
	}

	*that = board

	return nil
}
