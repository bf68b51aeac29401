package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-cli/internal/entity"
)

type gameRepo interface {
	Create(ctx context.Context) (*entity.Game, error)
	GetByID(ctx context.Context, id int64) (*entity.Game, error)
	List(ctx context.Context) ([]*entity.Game, error)
	SubmitMove(ctx context.Context, gameID int64, position int, player entity.Player) (*entity.Game, error)
	Moves(ctx context.Context, gameID int64) ([]*entity.Move, error)
	DeleteByID(ctx context.Context, id int64) error
}

type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
	}
}

func (that *GameManager) NewGame(ctx context.Context) (*entity.Game, error) {
	log := that.logger.With("method", "NewGame")

	game, err := that.gameRepo.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id int64) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) ListGames(ctx context.Context) ([]*entity.Game, error) {
	games, err := that.gameRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

// MakeTurn places player's mark on cell and returns the game as stored afterwards.
func (that *GameManager) MakeTurn(ctx context.Context, gameID int64, player entity.Player, cell int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID)

	game, err := that.gameRepo.SubmitMove(ctx, gameID, cell, player)
	if err != nil {
		log.Debug("move rejected", "player", player.String(), "cell", cell, "error", err)
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	log.Info("move accepted", "player", player.String(), "cell", cell, "board", game.Board.String())

	switch game.Status {
	case entity.StatusCompleted:
		log.Info("game finished", "status", game.Status.String(), "winner", game.Winner.String())
	case entity.StatusDraw:
		log.Info("game finished", "status", game.Status.String())
	case entity.StatusInProgress:
	}

	return game, nil
}

// History returns the game together with its moves in play order.
func (that *GameManager) History(ctx context.Context, gameID int64) (*entity.Game, []*entity.Move, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}

	moves, err := that.gameRepo.Moves(ctx, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get moves: %w", err)
	}

	return game, moves, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id int64) error {
	log := that.logger.With("method", "DeleteGame")

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	log.Info("game deleted", "gameID", id)

	return nil
}
