package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/vancomm/minesweeper-api/internal/mines"
)

// SQLite expects a handle opened with _txlock=immediate so that every
// transaction takes the write lock up front.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func sqliteError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintCheck {
		return fmt.Errorf("%w (%s)", mines.ErrInvalidParameter, sqliteErr.Error())
	}
	return err
}

func fetchGame(ctx context.Context, q querier, gameId int64) (*GameRecord, error) {
	var (
		state                []byte
		createdAt, updatedAt time.Time
	)
	err := q.QueryRowContext(
		ctx,
		"SELECT state, created_at, updated_at FROM game WHERE game_id = ?;",
		gameId,
	).Scan(&state, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, notFound(gameId)
	} else if err != nil {
		return nil, err
	}
	return decodeRecord(gameId, state, createdAt, updatedAt)
}

func (s *SQLite) CreateGame(ctx context.Context, game *mines.Game) (*GameRecord, error) {
	state, err := game.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize game state: %w", err)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
INSERT INTO game (height, width, mines, ended, result, state, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		game.Height(), game.Width(), game.Mines(), game.Ended(), result(game),
		state, now, now,
	)
	if err != nil {
		return nil, sqliteError(err)
	}
	gameId, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return fetchGame(ctx, s.db, gameId)
}

func (s *SQLite) FetchGame(ctx context.Context, gameId int64) (*GameRecord, error) {
	return fetchGame(ctx, s.db, gameId)
}

func (s *SQLite) ListGames(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT game_id FROM game ORDER BY game_id;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLite) ModifyGame(
	ctx context.Context, gameId int64, fn func(*mines.Game) error,
) (*GameRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := fetchGame(ctx, tx, gameId)
	if err != nil {
		return nil, err
	}
	if err := fn(current.Game); err != nil {
		return nil, err
	}

	state, err := current.Game.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize game state: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
UPDATE game SET ended = ?, result = ?, state = ?, updated_at = ?
WHERE game_id = ?;`,
		current.Game.Ended(), result(current.Game), state, time.Now().UTC(), gameId,
	)
	if err != nil {
		return nil, sqliteError(err)
	}
	record, err := fetchGame(ctx, tx, gameId)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
