package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-cli/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-cli/internal/entity"
	"github.com/rocketscienceinc/tictactoe-cli/internal/tictactoe"
)

// timeLayout is fixed width so that text ordering in SQL matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const gameColumns = `id, board_state, current_player, winner, status, created_at, updated_at`

type GameRepository interface {
	Create(ctx context.Context) (*entity.Game, error)
	GetByID(ctx context.Context, id int64) (*entity.Game, error)
	List(ctx context.Context) ([]*entity.Game, error)
	SubmitMove(ctx context.Context, gameID int64, position int, player entity.Player) (*entity.Game, error)
	Moves(ctx context.Context, gameID int64) ([]*entity.Move, error)
	DeleteByID(ctx context.Context, id int64) error
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

type dbGame struct {
	conn *sql.DB
	now  func() time.Time
}

func NewGameRepository(conn *sql.DB) GameRepository {
	return &dbGame{
		conn: conn,
		now:  time.Now,
	}
}

func (that *dbGame) Create(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame()
	game.CreatedAt = that.timestamp()
	game.UpdatedAt = game.CreatedAt

	query := `INSERT INTO games (board_state, current_player, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	result, err := that.conn.ExecContext(ctx, query,
		game.Board.String(),
		game.CurrentPlayer.String(),
		game.Status.String(),
		formatTime(game.CreatedAt),
		formatTime(game.UpdatedAt),
	)
	if err != nil {
		return nil, storageError("can't create game", err)
	}

	if game.ID, err = result.LastInsertId(); err != nil {
		return nil, storageError("can't get game id", err)
	}

	return game, nil
}

func (that *dbGame) GetByID(ctx context.Context, id int64) (*entity.Game, error) {
	return getGame(ctx, that.conn, id)
}

func (that *dbGame) List(ctx context.Context) ([]*entity.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY created_at DESC, id DESC`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, storageError("can't list games", err)
	}
	defer rows.Close()

	games := make([]*entity.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}

		games = append(games, game)
	}

	if err = rows.Err(); err != nil {
		return nil, storageError("can't list games", err)
	}

	return games, nil
}

// SubmitMove validates and applies one move. The game update and the move record are
// written in a single transaction; on any failure neither is stored.
func (that *dbGame) SubmitMove(ctx context.Context, gameID int64, position int, player entity.Player) (*entity.Game, error) {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageError("can't begin transaction", err)
	}
	defer func() {
		// no-op once committed
		_ = tx.Rollback()
	}()

	game, err := getGame(ctx, tx, gameID)
	if err != nil {
		return nil, err
	}

	if err = validateMove(game, position, player); err != nil {
		return nil, err
	}

	moveNumber := tictactoe.MoveCount(game.Board) + 1

	game.Board = tictactoe.ApplyMove(game.Board, position, player)
	game.Status, game.Winner = tictactoe.DeriveStatus(game.Board)
	if game.IsInProgress() {
		game.CurrentPlayer = tictactoe.NextPlayer(player)
	}
	game.UpdatedAt = that.timestamp()

	updateQuery := `UPDATE games SET board_state = ?, current_player = ?, winner = ?, status = ?, updated_at = ? WHERE id = ?`

	if _, err = tx.ExecContext(ctx, updateQuery,
		game.Board.String(),
		game.CurrentPlayer.String(),
		winnerValue(game.Winner),
		game.Status.String(),
		formatTime(game.UpdatedAt),
		game.ID,
	); err != nil {
		return nil, storageError("can't update game", err)
	}

	insertQuery := `INSERT INTO moves (game_id, player, position, move_number, created_at) VALUES (?, ?, ?, ?, ?)`

	if _, err = tx.ExecContext(ctx, insertQuery,
		game.ID,
		player.String(),
		position,
		moveNumber,
		formatTime(game.UpdatedAt),
	); err != nil {
		return nil, storageError("can't append move", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, storageError("can't commit move", err)
	}

	return game, nil
}

func (that *dbGame) Moves(ctx context.Context, gameID int64) ([]*entity.Move, error) {
	if _, err := getGame(ctx, that.conn, gameID); err != nil {
		return nil, err
	}

	query := `SELECT id, game_id, player, position, move_number, created_at FROM moves WHERE game_id = ? ORDER BY move_number`

	rows, err := that.conn.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, storageError("can't get moves", err)
	}
	defer rows.Close()

	moves := make([]*entity.Move, 0)
	for rows.Next() {
		var (
			move      entity.Move
			player    string
			createdAt string
		)

		if err = rows.Scan(&move.ID, &move.GameID, &player, &move.Position, &move.MoveNumber, &createdAt); err != nil {
			return nil, storageError("can't scan move", err)
		}

		if move.Player, err = entity.ParsePlayer(player); err != nil {
			return nil, storageError("can't decode move", err)
		}

		if move.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, storageError("can't decode move", err)
		}

		moves = append(moves, &move)
	}

	if err = rows.Err(); err != nil {
		return nil, storageError("can't get moves", err)
	}

	return moves, nil
}

// DeleteByID removes the game; its moves go with it through ON DELETE CASCADE.
func (that *dbGame) DeleteByID(ctx context.Context, id int64) error {
	result, err := that.conn.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return storageError("can't delete game", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storageError("can't delete game", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: game %d", apperror.ErrNotFound, id)
	}

	return nil
}

func (that *dbGame) timestamp() time.Time {
	// Round(0) drops the monotonic reading so values compare equal after a round trip.
	return that.now().UTC().Round(0)
}

func validateMove(game *entity.Game, position int, player entity.Player) error {
	if game.IsTerminal() {
		return fmt.Errorf("%w: game %d is %s", apperror.ErrGameFinished, game.ID, game.Status)
	}

	if expected := tictactoe.ExpectedPlayer(game.Board); game.CurrentPlayer != expected {
		return fmt.Errorf("%w: game %d has player %s to move on board %s", apperror.ErrStorageFailure, game.ID, game.CurrentPlayer, game.Board)
	}

	if player != game.CurrentPlayer {
		return fmt.Errorf("%w: %s to move, got %s", apperror.ErrNotYourTurn, game.CurrentPlayer, player)
	}

	if position < 0 || position >= entity.BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, position)
	}

	if !tictactoe.IsValidMove(game.Board, position) {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, position)
	}

	return nil
}

func getGame(ctx context.Context, db rowQueryer, id int64) (*entity.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = ?`

	game, err := scanGame(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: game %d", apperror.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	return game, nil
}

func scanGame(row rowScanner) (*entity.Game, error) {
	var (
		game          entity.Game
		board         string
		currentPlayer string
		winner        sql.NullString
		status        string
		createdAt     string
		updatedAt     string
	)

	err := row.Scan(&game.ID, &board, &currentPlayer, &winner, &status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, storageError("can't scan game", err)
	}

	if game.Board, err = entity.ParseBoard(board); err != nil {
		return nil, storageError("can't decode game", err)
	}

	if game.CurrentPlayer, err = entity.ParsePlayer(currentPlayer); err != nil {
		return nil, storageError("can't decode game", err)
	}

	if game.Status, err = entity.ParseStatus(status); err != nil {
		return nil, storageError("can't decode game", err)
	}

	if winner.Valid {
		player, err := entity.ParsePlayer(winner.String)
		if err != nil {
			return nil, storageError("can't decode game", err)
		}

		game.Winner = &player
	}

	if (game.Status == entity.StatusCompleted) != (game.Winner != nil) {
		return nil, storageError("can't decode game",
			fmt.Errorf("game %d has status %s and winner %q", game.ID, game.Status, winner.String))
	}

	if game.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, storageError("can't decode game", err)
	}

	if game.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, storageError("can't decode game", err)
	}

	return &game, nil
}

func winnerValue(winner *entity.Player) any {
	if winner == nil {
		return nil
	}

	return winner.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("can't parse time %q: %w", s, err)
	}

	return t, nil
}

func storageError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", apperror.ErrStorageFailure, msg, err)
}
