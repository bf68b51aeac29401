package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	// import the SQLite driver to register it with the database/sql package.
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	board_state TEXT NOT NULL DEFAULT '---------' CHECK (length(board_state) = 9),
	current_player TEXT NOT NULL DEFAULT 'x' CHECK (current_player IN ('x', 'o')),
	winner TEXT CHECK (winner IN ('x', 'o')),
	status TEXT NOT NULL DEFAULT 'in_progress' CHECK (status IN ('in_progress', 'completed', 'draw')),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	CHECK ((status = 'completed') = (winner IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_games_created_at ON games(created_at);

CREATE TABLE IF NOT EXISTS moves (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id INTEGER NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	player TEXT NOT NULL CHECK (player IN ('x', 'o')),
	position INTEGER NOT NULL CHECK (position BETWEEN 0 AND 8),
	move_number INTEGER NOT NULL CHECK (move_number >= 1),
	created_at TEXT NOT NULL,
	UNIQUE (game_id, move_number)
);
`

type Storage struct {
	Connection *sql.DB
}

// NewSQLiteStorage opens the database file at path with foreign keys enforced.
func NewSQLiteStorage(path string) (*Storage, error) {
	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

// Init creates the schema if it does not exist yet.
func (that *Storage) Init(ctx context.Context) error {
	if _, err := that.Connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't create tables: %w", err)
	}

	return nil
}

func (that *Storage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("can't close database: %w", err)
	}

	return nil
}

// dsn builds a file URI; _txlock=immediate makes every transaction take the write lock on BEGIN.
// The path is escaped so '?', '#' and '%' stay part of the file name.
func dsn(path string) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "journal_mode(wal)")
	params.Set("_txlock", "immediate")

	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?" + params.Encode()
}
