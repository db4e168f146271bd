package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-api/internal/mines"
	"github.com/vancomm/minesweeper-api/internal/repository"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

// parseParams fills dst from a JSON body or, failing that, from the query
// string and url-encoded form.
func parseParams(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return json.NewDecoder(r.Body).Decode(dst)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	return decoder.Decode(dst, r.Form)
}

type CreateGameDTO struct {
	Height int `schema:"height" json:"height"`
	Width  int `schema:"width" json:"width"`
	Mines  int `schema:"mines" json:"mines"`
}

func ParseCreateGameDTO(r *http.Request) (CreateGameDTO, error) {
	var dto CreateGameDTO
	if err := parseParams(r, &dto); err != nil {
		return dto, fmt.Errorf("%w: %v", mines.ErrInvalidParameter, err)
	}
	return dto, nil
}

type UpdateGameDTO struct {
	X       int    `schema:"x" json:"x"`
	Y       int    `schema:"y" json:"y"`
	Command string `schema:"command" json:"command"`
}

func ParseUpdateGameDTO(r *http.Request) (UpdateGameDTO, error) {
	var dto UpdateGameDTO
	if err := parseParams(r, &dto); err != nil {
		return dto, fmt.Errorf("%w: %v", mines.ErrInvalidCellCoordinate, err)
	}
	return dto, nil
}

type GameDTO struct {
	GameId         int64        `json:"id"`
	Height         int          `json:"height"`
	Width          int          `json:"width"`
	Mines          int          `json:"mines"`
	Cells          mines.Grid   `json:"cells"`
	MinesFlagged   int          `json:"mines_flagged"`
	UncoveredCells int          `json:"uncovered_cells"`
	Ended          bool         `json:"ended"`
	Result         mines.Result `json:"result"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func NewGameDTO(record *repository.GameRecord) *GameDTO {
	g := record.Game
	return &GameDTO{
		GameId:         record.GameId,
		Height:         g.Height(),
		Width:          g.Width(),
		Mines:          g.Mines(),
		Cells:          g.Cells(),
		MinesFlagged:   g.MinesFlagged(),
		UncoveredCells: g.UncoveredCells(),
		Ended:          g.Ended(),
		Result:         g.Result(),
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

type GameIdDTO struct {
	GameId int64 `json:"id"`
}
