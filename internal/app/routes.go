package app

import (
	"hash/maphash"
	"math/rand/v2"
	"net/http"

	"github.com/vancomm/minesweeper-engine/internal/handlers"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(a.logger, a.sessions, a.tokens, a.ws)
	owner := middleware.RequireSession(a.logger, a.tokens)

	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.Handle("POST /game/{id}/move", owner(http.HandlerFunc(game.MakeAMove)))
	a.router.Handle("POST /game/{id}/reset", owner(http.HandlerFunc(game.Reset)))
	a.router.Handle("POST /game/{id}/configure", owner(http.HandlerFunc(game.Configure)))
	a.router.Handle("GET /game/{id}/connect", owner(http.HandlerFunc(game.ConnectWS)))
}
