package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/tictactoe-cli/internal/entity"
	"github.com/rocketscienceinc/tictactoe-cli/internal/tictactoe"
)

const (
	rowSeparator  = "───┼───┼───"
	wideSeparator = "=================================================="
	listSeparator = "----------------------------------------------------------------------"
	listTimeFmt   = "2006-01-02 15:04"
)

func cellLabel(cell entity.Cell) string {
	switch cell {
	case entity.CellX:
		return "X"
	case entity.CellO:
		return "O"
	default:
		return " "
	}
}

func playerLabel(player entity.Player) string {
	return strings.ToUpper(player.String())
}

func renderGrid(w io.Writer, label func(i int) string) {
	for row := range 3 {
		if row > 0 {
			fmt.Fprintln(w, rowSeparator)
		}

		fmt.Fprintf(w, " %s │ %s │ %s \n", label(row*3), label(row*3+1), label(row*3+2))
	}
}

func renderBoard(w io.Writer, board entity.Board) {
	fmt.Fprintln(w)
	renderGrid(w, func(i int) string { return cellLabel(board[i]) })
	fmt.Fprintln(w)
}

func renderPositions(w io.Writer) {
	fmt.Fprintln(w, "\nPosition numbers:")
	renderGrid(w, func(i int) string { return fmt.Sprint(i) })
	fmt.Fprintln(w)
}

func renderResult(w io.Writer, game *entity.Game) {
	switch game.Status {
	case entity.StatusCompleted:
		fmt.Fprintf(w, "Winner: %s\n", playerLabel(*game.Winner))
	case entity.StatusDraw:
		fmt.Fprintln(w, "Result: Draw")
	case entity.StatusInProgress:
		fmt.Fprintf(w, "Current player: %s\n", playerLabel(game.CurrentPlayer))
	}
}

func renderGameOver(w io.Writer, game *entity.Game) {
	fmt.Fprintln(w, wideSeparator)
	if game.Status == entity.StatusCompleted {
		fmt.Fprintf(w, "GAME OVER! Player %s wins!\n", playerLabel(*game.Winner))
	} else {
		fmt.Fprintln(w, "GAME OVER! It's a draw!")
	}
	fmt.Fprintln(w, wideSeparator)
}

func renderHistory(w io.Writer, moves []*entity.Move) {
	if len(moves) == 0 {
		return
	}

	fmt.Fprintln(w, "\nGame History:")
	for _, move := range moves {
		fmt.Fprintf(w, "  Move %d: %s → position %d\n", move.MoveNumber, playerLabel(move.Player), move.Position)
	}
	fmt.Fprintln(w)
}

func renderGameList(w io.Writer, games []*entity.Game) {
	if len(games) == 0 {
		fmt.Fprintln(w, "\nNo saved games found.")
		return
	}

	fmt.Fprintln(w, "\nSaved Games:")
	fmt.Fprintln(w, listSeparator)
	for _, game := range games {
		var info string
		switch game.Status {
		case entity.StatusCompleted:
			info = "Winner: " + playerLabel(*game.Winner)
		case entity.StatusDraw:
			info = "Draw"
		case entity.StatusInProgress:
			info = "Turn: " + playerLabel(game.CurrentPlayer)
		}

		fmt.Fprintf(w, "  [%-11s] Game #%d | %s | Moves: %d | %s\n",
			game.Status, game.ID, info, tictactoe.MoveCount(game.Board), game.CreatedAt.Local().Format(listTimeFmt))
	}
	fmt.Fprintln(w, listSeparator)
}

type gameWithMoves struct {
	Game  *entity.Game   `json:"game"`
	Moves []*entity.Move `json:"moves"`
}

func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	return nil
}
