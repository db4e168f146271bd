package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper-api/internal/mines"
)

type Queries struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

type gameRow struct {
	GameId    int64
	Height    int32
	Width     int32
	Mines     int32
	Ended     bool
	Result    *string
	State     []byte
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

func (r gameRow) record() (*GameRecord, error) {
	return decodeRecord(r.GameId, r.State, r.CreatedAt.Time, r.UpdatedAt.Time)
}

func pgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
		return fmt.Errorf("%w (%s)", mines.ErrInvalidParameter, pgErr.ConstraintName)
	}
	return err
}

func (q Queries) CreateGame(ctx context.Context, game *mines.Game) (*GameRecord, error) {
	state, err := game.Bytes()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize game state: %w", err)
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game (height, width, mines, ended, result, state)
		VALUES (@height, @width, @mines, @ended, @result, @state)
		RETURNING *`,
		pgx.NamedArgs{
			"height": game.Height(),
			"width":  game.Width(),
			"mines":  game.Mines(),
			"ended":  game.Ended(),
			"result": result(game),
			"state":  state,
		},
	)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[gameRow])
	if err != nil {
		return nil, pgError(err)
	}
	return row.record()
}

func (q Queries) FetchGame(ctx context.Context, gameId int64) (*GameRecord, error) {
	rows, _ := q.db.Query(ctx, "SELECT * FROM game WHERE game_id = $1", gameId)
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[gameRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(gameId)
	}
	if err != nil {
		return nil, err
	}
	return row.record()
}

func (q Queries) ListGames(ctx context.Context) ([]int64, error) {
	rows, _ := q.db.Query(ctx, "SELECT game_id FROM game ORDER BY game_id")
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (q Queries) ModifyGame(
	ctx context.Context, gameId int64, fn func(*mines.Game) error,
) (record *GameRecord, err error) {
	err = pgx.BeginFunc(ctx, q.db, func(tx pgx.Tx) error {
		rows, _ := tx.Query(
			ctx, "SELECT * FROM game WHERE game_id = $1 FOR UPDATE", gameId,
		)
		row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[gameRow])
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(gameId)
		}
		if err != nil {
			return err
		}
		current, err := row.record()
		if err != nil {
			return err
		}
		if err := fn(current.Game); err != nil {
			return err
		}

		state, err := current.Game.Bytes()
		if err != nil {
			return fmt.Errorf("unable to serialize game state: %w", err)
		}
		rows, _ = tx.Query(
			ctx,
			`UPDATE game
			SET ended = @ended, result = @result, state = @state, updated_at = now()
			WHERE game_id = @game_id
			RETURNING *`,
			pgx.NamedArgs{
				"game_id": gameId,
				"ended":   current.Game.Ended(),
				"result":  result(current.Game),
				"state":   state,
			},
		)
		row, err = pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[gameRow])
		if err != nil {
			return pgError(err)
		}
		record, err = row.record()
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (q Queries) Close() error {
	q.db.Close()
	return nil
}
