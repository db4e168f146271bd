package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-api/internal/config"
	"github.com/vancomm/minesweeper-api/internal/mines"
	"github.com/vancomm/minesweeper-api/internal/repository"
)

type GameHandler struct {
	logger    *slog.Logger
	repo      repository.Repository
	upgrader  *websocket.Upgrader
	readLimit int64
	rnd       *rand.Rand
}

// NewGameHandler expects rnd to be safe for concurrent use.
func NewGameHandler(
	logger *slog.Logger,
	repo repository.Repository,
	ws config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		logger:    logger,
		repo:      repo,
		upgrader:  ws.Upgrader(),
		readLimit: ws.ReadLimit,
		rnd:       rnd,
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mines.ErrInvalidParameter),
		errors.Is(err, mines.ErrInvalidCellCoordinate),
		errors.Is(err, mines.ErrInvalidCommand),
		errors.Is(err, mines.ErrGameEnded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func notFoundMessage(rawId string) string {
	return fmt.Sprintf("couldn't find Game with 'id'=%s", rawId)
}

// errorBody maps err to a status and a body. Unexpected errors are logged
// and not shown to the client.
func (g GameHandler) errorBody(r *http.Request, err error) (int, ErrorsDTO) {
	status := statusOf(err)
	switch status {
	case http.StatusNotFound:
		return status, wrapError(notFoundMessage(mux.Vars(r)["id"]))
	case http.StatusInternalServerError:
		g.logger.Error(
			"unable to handle request",
			slog.String("uri", r.URL.RequestURI()),
			slog.Any("error", err),
		)
		return status, wrapError(http.StatusText(status))
	default:
		return status, wrapError(err.Error())
	}
}

func (g GameHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := g.errorBody(r, err)
	sendStatusJSONOrLog(w, g.logger, status, body)
}

func (g GameHandler) gameId(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	gameId, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || gameId <= 0 {
		return 0, fmt.Errorf("%w: malformed id %q", repository.ErrNotFound, raw)
	}
	return gameId, nil
}

func (g GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateGameDTO(r)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	game, err := mines.Generate(dto.Height, dto.Width, dto.Mines, g.rnd)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	record, err := g.repo.CreateGame(r.Context(), game)
	if err != nil {
		g.fail(w, r, fmt.Errorf("unable to create game: %w", err))
		return
	}

	g.logger.Debug("created game", slog.Int64("id", record.GameId), slog.String("seed", game.Params().Seed()))
	sendJSONOrLog(w, g.logger, NewGameDTO(record))
}

func (g GameHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := g.repo.ListGames(r.Context())
	if err != nil {
		g.fail(w, r, fmt.Errorf("unable to list games: %w", err))
		return
	}
	games := make([]GameIdDTO, 0, len(ids))
	for _, id := range ids {
		games = append(games, GameIdDTO{GameId: id})
	}
	sendJSONOrLog(w, g.logger, games)
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	gameId, err := g.gameId(r)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	record, err := g.repo.FetchGame(r.Context(), gameId)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameDTO(record))
}

func (g GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	gameId, err := g.gameId(r)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	dto, err := ParseUpdateGameDTO(r)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	cmd, err := mines.ParseCommand(dto.Command)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	record, err := g.repo.ModifyGame(r.Context(), gameId, func(game *mines.Game) error {
		return game.Execute(cmd, dto.X, dto.Y)
	})
	if err != nil {
		g.fail(w, r, err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameDTO(record))
}

func (g GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	gameId, err := g.gameId(r)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	record, err := g.repo.FetchGame(r.Context(), gameId)
	if err != nil {
		g.fail(w, r, err)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("unable to upgrade connection", slog.Any("error", err))
		return
	}
	defer conn.Close()
	if g.readLimit > 0 {
		conn.SetReadLimit(g.readLimit)
	}

	if err := conn.WriteJSON(NewGameDTO(record)); err != nil {
		g.logger.Error("unable to write json", slog.Any("error", err))
		return
	}

	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err, websocket.CloseNormalClosure, websocket.CloseGoingAway,
			) {
				g.logger.Error("unable to read message", slog.Any("error", err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var reply any
		record, err := g.repo.ModifyGame(r.Context(), gameId, func(game *mines.Game) error {
			return runBatch(game, string(buf))
		})
		if err != nil {
			_, reply = g.errorBody(r, err)
		} else {
			reply = NewGameDTO(record)
		}

		if err := conn.WriteJSON(reply); err != nil {
			g.logger.Error("unable to write json", slog.Any("error", err))
			return
		}
	}
}
