package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-cli/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-cli/internal/entity"
	"github.com/rocketscienceinc/tictactoe-cli/internal/tictactoe"
)

// errQuit is returned by prompts when the user asks to leave or input ends.
var errQuit = errors.New("quit")

type gameManager interface {
	NewGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id int64) (*entity.Game, error)
	ListGames(ctx context.Context) ([]*entity.Game, error)
	MakeTurn(ctx context.Context, gameID int64, player entity.Player, cell int) (*entity.Game, error)
	History(ctx context.Context, gameID int64) (*entity.Game, []*entity.Move, error)
	DeleteGame(ctx context.Context, id int64) error
}

// session is one interactive conversation over a line-oriented input.
type session struct {
	manager gameManager
	scanner *bufio.Scanner
	out     io.Writer
}

func newSession(manager gameManager, in io.Reader, out io.Writer) *session {
	return &session{
		manager: manager,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (that *session) prompt(text string) (string, error) {
	fmt.Fprint(that.out, text)

	if !that.scanner.Scan() {
		if err := that.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		fmt.Fprintln(that.out)

		return "", errQuit
	}

	return strings.TrimSpace(that.scanner.Text()), nil
}

// readPosition asks until it gets an empty cell of board, or errQuit.
func (that *session) readPosition(board entity.Board, player entity.Player) (int, error) {
	for {
		input, err := that.prompt(fmt.Sprintf("\nPlayer %s, enter position (0-8) or 'q' to quit: ", playerLabel(player)))
		if err != nil {
			return 0, err
		}

		if strings.EqualFold(input, "q") {
			return 0, errQuit
		}

		position, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(that.out, "Invalid input! Please enter a number between 0 and 8.")
			continue
		}

		if !tictactoe.IsValidMove(board, position) {
			fmt.Fprintln(that.out, "Invalid move! Position must be 0-8 and empty.")
			continue
		}

		return position, nil
	}
}

// play runs the turn loop until the game ends or the user leaves.
func (that *session) play(ctx context.Context, game *entity.Game) error {
	fmt.Fprintln(that.out, "\n"+wideSeparator)
	fmt.Fprintf(that.out, "TIC-TAC-TOE - Game #%d\n", game.ID)
	fmt.Fprintln(that.out, wideSeparator)
	renderPositions(that.out)

	for game.IsInProgress() {
		renderBoard(that.out, game.Board)
		renderResult(that.out, game)

		position, err := that.readPosition(game.Board, game.CurrentPlayer)
		if errors.Is(err, errQuit) {
			fmt.Fprintln(that.out, "\nGame saved! You can resume later.")
			return nil
		}
		if err != nil {
			return err
		}

		updated, err := that.manager.MakeTurn(ctx, game.ID, game.CurrentPlayer, position)
		if errors.Is(err, apperror.ErrInvalidMove) {
			// the stored game moved on under us; reload and keep going
			fmt.Fprintf(that.out, "Move rejected: %v\n", err)

			if game, err = that.manager.GetGame(ctx, game.ID); err != nil {
				return err
			}

			continue
		}
		if err != nil {
			return err
		}

		game = updated
	}

	renderBoard(that.out, game.Board)
	renderGameOver(that.out, game)

	return that.history(ctx, game.ID)
}

func (that *session) history(ctx context.Context, gameID int64) error {
	_, moves, err := that.manager.History(ctx, gameID)
	if err != nil {
		return err
	}

	renderHistory(that.out, moves)

	return nil
}

// resume plays an in-progress game or shows how a finished one ended.
func (that *session) resume(ctx context.Context, gameID int64) error {
	game, err := that.manager.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	if game.IsInProgress() {
		return that.play(ctx, game)
	}

	fmt.Fprintln(that.out, "\nThis game is already finished. Showing final state...")
	renderBoard(that.out, game.Board)
	renderResult(that.out, game)

	return that.history(ctx, game.ID)
}

func (that *session) load(ctx context.Context) error {
	games, err := that.manager.ListGames(ctx)
	if err != nil {
		return err
	}

	renderGameList(that.out, games)
	if len(games) == 0 {
		return nil
	}

	input, err := that.prompt("\nEnter game ID to load (or 0 to cancel): ")
	if err != nil {
		return err
	}

	gameID, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		fmt.Fprintln(that.out, "\nInvalid game ID.")
		return nil
	}

	if gameID == 0 {
		return nil
	}

	err = that.resume(ctx, gameID)
	if errors.Is(err, apperror.ErrNotFound) {
		fmt.Fprintf(that.out, "\nGame #%d not found.\n", gameID)
		return nil
	}

	return err
}

func (that *session) list(ctx context.Context) error {
	games, err := that.manager.ListGames(ctx)
	if err != nil {
		return err
	}

	renderGameList(that.out, games)

	_, err = that.prompt("\nPress Enter to continue...")

	return err
}

func (that *session) menu(ctx context.Context) error {
	for {
		fmt.Fprintln(that.out, "\n"+wideSeparator)
		fmt.Fprintln(that.out, "TIC-TAC-TOE")
		fmt.Fprintln(that.out, wideSeparator)
		fmt.Fprintln(that.out, "\n1. New Game")
		fmt.Fprintln(that.out, "2. Load Game")
		fmt.Fprintln(that.out, "3. List All Games")
		fmt.Fprintln(that.out, "4. Quit")

		choice, err := that.prompt("\nEnter your choice (1-4): ")
		if err != nil && !errors.Is(err, errQuit) {
			return err
		}

		switch {
		case err != nil, choice == "4", strings.EqualFold(choice, "q"):
			fmt.Fprintln(that.out, "\nThanks for playing! Goodbye!")
			return nil
		case choice == "1":
			game, err := that.manager.NewGame(ctx)
			if err != nil {
				return err
			}

			err = that.play(ctx, game)
			if err != nil {
				return err
			}
		case choice == "2":
			if err = that.load(ctx); err != nil && !errors.Is(err, errQuit) {
				return err
			}
		case choice == "3":
			if err = that.list(ctx); err != nil && !errors.Is(err, errQuit) {
				return err
			}
		default:
			fmt.Fprintln(that.out, "\nInvalid choice. Please enter 1-4.")
		}
	}
}
