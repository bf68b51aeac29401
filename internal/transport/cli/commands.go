package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-cli/internal/entity"
)

type options struct {
	json   bool
	player string
}

// NewRootCommand builds the tictactoe command tree. Without a subcommand it opens the menu.
func NewRootCommand(manager gameManager) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "tictactoe",
		Short:         "Play tic-tac-toe with games saved between runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newSession(manager, cmd.InOrStdin(), cmd.OutOrStdout()).menu(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "print games as JSON")

	rootCmd.AddCommand(
		newMenuCommand(manager),
		newNewCommand(manager, opts),
		newPlayCommand(manager),
		newListCommand(manager, opts),
		newShowCommand(manager, opts),
		newMoveCommand(manager, opts),
		newDeleteCommand(manager),
	)

	return rootCmd
}

func newMenuCommand(manager gameManager) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Open the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newSession(manager, cmd.InOrStdin(), cmd.OutOrStdout()).menu(cmd.Context())
		},
	}
}

func newNewCommand(manager gameManager, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new game and play it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			game, err := manager.NewGame(cmd.Context())
			if err != nil {
				return err
			}

			if opts.json {
				return renderJSON(cmd.OutOrStdout(), game)
			}

			return newSession(manager, cmd.InOrStdin(), cmd.OutOrStdout()).play(cmd.Context(), game)
		},
	}
}

func newPlayCommand(manager gameManager) *cobra.Command {
	return &cobra.Command{
		Use:   "play <game-id>",
		Short: "Resume a saved game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			return newSession(manager, cmd.InOrStdin(), cmd.OutOrStdout()).resume(cmd.Context(), gameID)
		},
	}
}

func newListCommand(manager gameManager, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved games, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			games, err := manager.ListGames(cmd.Context())
			if err != nil {
				return err
			}

			if opts.json {
				return renderJSON(cmd.OutOrStdout(), games)
			}

			renderGameList(cmd.OutOrStdout(), games)

			return nil
		},
	}
}

func newShowCommand(manager gameManager, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show a game's board and move history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			game, moves, err := manager.History(cmd.Context(), gameID)
			if err != nil {
				return err
			}

			if opts.json {
				return renderJSON(cmd.OutOrStdout(), gameWithMoves{Game: game, Moves: moves})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Game #%d (%s)\n", game.ID, game.Status)
			renderBoard(out, game.Board)
			renderResult(out, game)
			renderHistory(out, moves)

			return nil
		},
	}
}

func newMoveCommand(manager gameManager, opts *options) *cobra.Command {
	moveCmd := &cobra.Command{
		Use:   "move <game-id> <position>",
		Short: "Make a single move without the interactive prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			position, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q: %w", args[1], err)
			}

			var player entity.Player
			if opts.player != "" {
				if player, err = entity.ParsePlayer(opts.player); err != nil {
					return err
				}
			} else {
				game, err := manager.GetGame(cmd.Context(), gameID)
				if err != nil {
					return err
				}

				player = game.CurrentPlayer
			}

			game, err := manager.MakeTurn(cmd.Context(), gameID, player, position)
			if err != nil {
				return err
			}

			if opts.json {
				return renderJSON(cmd.OutOrStdout(), game)
			}

			out := cmd.OutOrStdout()
			renderBoard(out, game.Board)
			if game.IsTerminal() {
				renderGameOver(out, game)
			} else {
				renderResult(out, game)
			}

			return nil
		},
	}

	moveCmd.Flags().StringVar(&opts.player, "player", "", "player making the move: x or o (defaults to whoever is to move)")

	return moveCmd
}

func newDeleteCommand(manager gameManager) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			if err = manager.DeleteGame(cmd.Context(), gameID); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Game #%d deleted.\n", gameID)

			return nil
		},
	}
}

func parseGameID(s string) (int64, error) {
	gameID, err := strconv.ParseInt(s, 10, 64)
	if err != nil || gameID <= 0 {
		return 0, fmt.Errorf("invalid game id %q", s)
	}

	return gameID, nil
}
