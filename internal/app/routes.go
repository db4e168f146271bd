package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/vancomm/minesweeper-api/internal/handlers"
)

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// createRand returns a generator that is safe for concurrent use.
func createRand() *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	)})
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(
		a.logger, a.repo, a.config.WebSocket, createRand(),
	)

	router := a.router
	if a.config.BasePath != "" {
		router = a.router.PathPrefix(a.config.BasePath).Subrouter()
	}

	router.Methods(http.MethodGet).Path("/status").HandlerFunc(handlers.Status)

	router.Methods(http.MethodPost).Path("/games").HandlerFunc(game.Create)
	router.Methods(http.MethodGet).Path("/games").HandlerFunc(game.List)
	router.Methods(http.MethodGet).Path("/games/{id}/connect").HandlerFunc(game.Connect)
	router.Methods(http.MethodGet).Path("/games/{id}").HandlerFunc(game.Fetch)
	router.Methods(http.MethodPut).Path("/games/{id}").HandlerFunc(game.Update)
}
