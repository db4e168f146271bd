package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vancomm/minesweeper-api/internal/mines"
)

var ErrNotFound = fmt.Errorf("game not found")

func notFound(id int64) error {
	return fmt.Errorf("%w: couldn't find game with id=%d", ErrNotFound, id)
}

type GameRecord struct {
	GameId    int64
	Game      *mines.Game
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository persists games. ModifyGame holds a write lock on the game for the
// duration of fn and saves the game only if fn returns nil.
type Repository interface {
	CreateGame(ctx context.Context, game *mines.Game) (*GameRecord, error)
	FetchGame(ctx context.Context, gameId int64) (*GameRecord, error)
	ListGames(ctx context.Context) ([]int64, error)
	ModifyGame(ctx context.Context, gameId int64, fn func(*mines.Game) error) (*GameRecord, error)
	Close() error
}

// result is the nullable result column.
func result(game *mines.Game) *string {
	if game.Result() == mines.ResultNone {
		return nil
	}
	s := game.Result().String()
	return &s
}

func decodeRecord(gameId int64, state []byte, createdAt, updatedAt time.Time) (*GameRecord, error) {
	game, err := mines.DecodeGame(state)
	if err != nil {
		return nil, fmt.Errorf("db returned invalid game.state for id=%d: %w", gameId, err)
	}
	return &GameRecord{
		GameId:    gameId,
		Game:      game,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
