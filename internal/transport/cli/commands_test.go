package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-cli/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-cli/internal/entity"
	"github.com/rocketscienceinc/tictactoe-cli/internal/repository"
	"github.com/rocketscienceinc/tictactoe-cli/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-cli/testing/suite"
)

func newTestManager(t *testing.T) (context.Context, *usecase.GameManager) {
	t.Helper()

	ctx, st := suite.New(t)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return ctx, usecase.NewGameManager(logger, repository.NewGameRepository(st.Storage.Connection))
}

func run(ctx context.Context, manager gameManager, input string, args ...string) (string, error) {
	var out bytes.Buffer

	cmd := NewRootCommand(manager)
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.ExecuteContext(ctx)

	return out.String(), err
}

func TestNewCommand(t *testing.T) {
	t.Run("Plays a game to a win", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		// When: X takes the top row while O plays the middle row
		out, err := run(ctx, manager, "0\n3\n1\n4\n2\n", "new")

		// Then: X wins and the full history is printed
		require.NoError(t, err)
		assert.Contains(t, out, "TIC-TAC-TOE - Game #1")
		assert.Contains(t, out, "GAME OVER! Player X wins!")
		assert.Contains(t, out, "  Move 1: X → position 0\n")
		assert.Contains(t, out, "  Move 5: X → position 2\n")

		game, err := manager.GetGame(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "xxxoo----", game.Board.String())
	})

	t.Run("Bad input re-prompts and q saves", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		out, err := run(ctx, manager, "abc\n9\n0\n0\nq\n", "new")

		require.NoError(t, err)
		assert.Contains(t, out, "Invalid input! Please enter a number between 0 and 8.")
		assert.Equal(t, 2, strings.Count(out, "Invalid move! Position must be 0-8 and empty."))
		assert.Contains(t, out, "Game saved! You can resume later.")

		game, err := manager.GetGame(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "x--------", game.Board.String())
		assert.Equal(t, entity.PlayerO, game.CurrentPlayer)
	})

	t.Run("End of input saves the game", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		out, err := run(ctx, manager, "4\n", "new")

		require.NoError(t, err)
		assert.Contains(t, out, "Game saved!")
	})

	t.Run("JSON output skips the prompt", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		out, err := run(ctx, manager, "", "new", "--json")
		require.NoError(t, err)

		var game entity.Game
		require.NoError(t, json.Unmarshal([]byte(out), &game))
		assert.Equal(t, int64(1), game.ID)
		assert.Equal(t, entity.StatusInProgress, game.Status)
	})
}

func TestPlayCommand(t *testing.T) {
	t.Run("Resumes where the game was left", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		_, err := run(ctx, manager, "0\nq\n", "new")
		require.NoError(t, err)

		// When: the game is resumed and O plays 4
		out, err := run(ctx, manager, "4\nq\n", "play", "1")

		// Then: O was prompted and the move is stored
		require.NoError(t, err)
		assert.Contains(t, out, "Player O, enter position")

		game, err := manager.GetGame(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "x---o----", game.Board.String())
	})

	t.Run("Finished game shows its final state", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		_, err := run(ctx, manager, "0\n3\n1\n4\n2\n", "new")
		require.NoError(t, err)

		out, err := run(ctx, manager, "", "play", "1")

		require.NoError(t, err)
		assert.Contains(t, out, "This game is already finished.")
		assert.Contains(t, out, "Winner: X")
		assert.NotContains(t, out, "enter position")
	})

	t.Run("Unknown game is not found", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		_, err := run(ctx, manager, "", "play", "42")

		require.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Game id must be a positive number", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		for _, id := range []string{"abc", "0", "-3"} {
			_, err := run(ctx, manager, "", "play", id)
			require.Error(t, err)
		}
	})
}

func TestMoveCommand(t *testing.T) {
	ctx, manager := newTestManager(t)

	_, err := manager.NewGame(ctx)
	require.NoError(t, err)

	// When: no player is given the current one moves
	out, err := run(ctx, manager, "", "move", "1", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Current player: O")

	// Then: the rules are enforced for explicit players
	_, err = run(ctx, manager, "", "move", "1", "4", "--player", "o")
	require.ErrorIs(t, err, apperror.ErrCellOccupied)

	_, err = run(ctx, manager, "", "move", "1", "0", "--player", "x")
	require.ErrorIs(t, err, apperror.ErrNotYourTurn)

	_, err = run(ctx, manager, "", "move", "1", "12")
	require.ErrorIs(t, err, apperror.ErrInvalidCell)

	_, err = run(ctx, manager, "", "move", "1", "0", "--player", "z")
	require.ErrorIs(t, err, entity.ErrInvalidPlayer)

	out, err = run(ctx, manager, "", "move", "1", "0", "--player", "O", "--json")
	require.NoError(t, err)

	var game entity.Game
	require.NoError(t, json.Unmarshal([]byte(out), &game))
	assert.Equal(t, "o---x----", game.Board.String())
	assert.Equal(t, entity.PlayerX, game.CurrentPlayer)
}

func TestListCommand(t *testing.T) {
	ctx, manager := newTestManager(t)

	out, err := run(ctx, manager, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved games found.")

	// Given: one finished game and one in progress
	_, err = run(ctx, manager, "0\n3\n1\n4\n2\n", "new")
	require.NoError(t, err)
	_, err = run(ctx, manager, "4\nq\n", "new")
	require.NoError(t, err)

	out, err = run(ctx, manager, "", "list")
	require.NoError(t, err)

	// Then: newest first with status, turn and move count
	second := strings.Index(out, "Game #2 | Turn: O | Moves: 1")
	first := strings.Index(out, "Game #1 | Winner: X | Moves: 5")
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, first)
	assert.Less(t, second, first)

	out, err = run(ctx, manager, "", "list", "--json")
	require.NoError(t, err)

	var games []*entity.Game
	require.NoError(t, json.Unmarshal([]byte(out), &games))
	require.Len(t, games, 2)
	assert.Equal(t, int64(2), games[0].ID)
}

func TestShowCommand(t *testing.T) {
	ctx, manager := newTestManager(t)

	_, err := run(ctx, manager, "4\n0\nq\n", "new")
	require.NoError(t, err)

	out, err := run(ctx, manager, "", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Game #1 (in_progress)")
	assert.Contains(t, out, " O │   │   \n")
	assert.Contains(t, out, "  Move 2: O → position 0\n")

	out, err = run(ctx, manager, "", "show", "1", "--json")
	require.NoError(t, err)

	var shown gameWithMoves
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "o---x----", shown.Game.Board.String())
	require.Len(t, shown.Moves, 2)
	assert.Equal(t, 4, shown.Moves[0].Position)
}

func TestDeleteCommand(t *testing.T) {
	ctx, manager := newTestManager(t)

	_, err := run(ctx, manager, "4\nq\n", "new")
	require.NoError(t, err)

	out, err := run(ctx, manager, "", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Game #1 deleted.")

	_, err = run(ctx, manager, "", "show", "1")
	require.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = run(ctx, manager, "", "delete", "1")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMenu(t *testing.T) {
	t.Run("New game then quit", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		// When: a game is started from the menu, left, and the menu is closed
		out, err := run(ctx, manager, "1\n4\nq\n4\n")

		// Then: the game was saved and the menu said goodbye
		require.NoError(t, err)
		assert.Contains(t, out, "1. New Game")
		assert.Contains(t, out, "Game saved!")
		assert.Contains(t, out, "Thanks for playing! Goodbye!")

		games, err := manager.ListGames(ctx)
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, "----x----", games[0].Board.String())
	})

	t.Run("Load resumes a saved game", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		_, err := run(ctx, manager, "4\nq\n", "new")
		require.NoError(t, err)

		out, err := run(ctx, manager, "2\n1\n0\nq\nq\n", "menu")

		require.NoError(t, err)
		assert.Contains(t, out, "Enter game ID to load")
		assert.Contains(t, out, "Player O, enter position")

		game, err := manager.GetGame(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "o---x----", game.Board.String())
	})

	t.Run("Load reports unknown and malformed ids", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		_, err := manager.NewGame(ctx)
		require.NoError(t, err)

		out, err := run(ctx, manager, "2\n7\n2\nseven\n2\n0\n4\n")

		require.NoError(t, err)
		assert.Contains(t, out, "Game #7 not found.")
		assert.Contains(t, out, "Invalid game ID.")
	})

	t.Run("List waits for enter", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		out, err := run(ctx, manager, "3\n\nq\n")

		require.NoError(t, err)
		assert.Contains(t, out, "No saved games found.")
		assert.Contains(t, out, "Press Enter to continue...")
	})

	t.Run("Unknown choice then end of input", func(t *testing.T) {
		ctx, manager := newTestManager(t)

		out, err := run(ctx, manager, "9\n")

		require.NoError(t, err)
		assert.Contains(t, out, "Invalid choice. Please enter 1-4.")
		assert.Contains(t, out, "Thanks for playing! Goodbye!")
	})
}

func TestRenderBoard(t *testing.T) {
	var out bytes.Buffer

	renderBoard(&out, entity.MustParseBoard("xo-" + "-x-" + "--o"))

	expected := "\n" +
		" X │ O │   \n" +
		"───┼───┼───\n" +
		"   │ X │   \n" +
		"───┼───┼───\n" +
		"   │   │ O \n" +
		"\n"
	assert.Equal(t, expected, out.String())
}
