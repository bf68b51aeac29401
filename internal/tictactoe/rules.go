// Package tictactoe holds the rules of the game as pure functions over entity.Board.
package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-cli/internal/entity"
)

// WinCombos lists the winning lines in the order DetectWinner checks them.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// IsValidMove reports whether position is on the board and empty.
func IsValidMove(board entity.Board, position int) bool {
	if position < 0 || position >= len(board) {
		return false
	}

	return board[position] == entity.CellEmpty
}

// ApplyMove returns a copy of board with player's mark at position.
// The move must have been validated with IsValidMove; an invalid one panics.
func ApplyMove(board entity.Board, position int, player entity.Player) entity.Board {
	if !IsValidMove(board, position) {
		panic(fmt.Sprintf("tictactoe: apply invalid move at %d on %q", position, board.String()))
	}

	board[position] = player.Cell()

	return board
}

// DetectWinner returns the player owning the first complete line in WinCombos order.
// A board where both players complete a line cannot come from alternating play;
// it is not rejected and the first line found decides.
func DetectWinner(board entity.Board) (entity.Player, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.CellEmpty && a == b && b == c {
			return cellOwner(a), true
		}
	}

	return 0, false
}

// IsDraw reports whether the board is full without a winner.
func IsDraw(board entity.Board) bool {
	if MoveCount(board) != len(board) {
		return false
	}

	_, won := DetectWinner(board)

	return !won
}

// DeriveStatus returns the status of a game whose board is board, and its winner if any.
func DeriveStatus(board entity.Board) (entity.Status, *entity.Player) {
	if winner, ok := DetectWinner(board); ok {
		return entity.StatusCompleted, &winner
	}

	if IsDraw(board) {
		return entity.StatusDraw, nil
	}

	return entity.StatusInProgress, nil
}

func NextPlayer(current entity.Player) entity.Player {
	if current == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}

// MoveCount returns the number of marks on the board.
func MoveCount(board entity.Board) int {
	count := 0
	for _, cell := range board {
		if cell != entity.CellEmpty {
			count++
		}
	}

	return count
}

// ExpectedPlayer returns whose turn it is on board under strict alternation from X.
func ExpectedPlayer(board entity.Board) entity.Player {
	if MoveCount(board)%2 == 0 {
		return entity.PlayerX
	}
	return entity.PlayerO
}

func cellOwner(cell entity.Cell) entity.Player {
	switch cell {
	case entity.CellX:
		return entity.PlayerX
	case entity.CellO:
		return entity.PlayerO
	default:
		panic(fmt.Sprintf("tictactoe: cell %d has no owner", cell))
	}
}
