package main

import (
	"github.com/justinas/alice"
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	api := alice.New(
		app.sessionManager.LoadAndSave,
		app.noSurf,
		commonContext,
		app.identifyPlayer,
		func(next http.Handler) http.Handler { return timeoutHandler(next, app.timeout) },
	)

	mux.Handle("GET /api/state", api.ThenFunc(app.getState))
	mux.Handle("POST /api/ready", api.ThenFunc(app.ready))
	mux.Handle("POST /api/ended", api.ThenFunc(app.ended))
	mux.Handle("POST /api/retry", api.ThenFunc(app.retry))
	mux.Handle("POST /api/press", api.ThenFunc(app.press))
	mux.Handle("POST /api/case", api.ThenFunc(app.startCase))
	mux.Handle("POST /api/continue", api.ThenFunc(app.continueGame))
	mux.Handle("POST /api/selection/rotate", api.ThenFunc(app.rotateSelection))
	mux.Handle("POST /api/selection/confirm", api.ThenFunc(app.confirmSelection))
	mux.Handle("PUT /api/settings", api.ThenFunc(app.updateSettings))

	mux.Handle("GET /api/events", alice.New(app.eventStreamSession).ThenFunc(app.events))
	mux.HandleFunc("GET /api/healthy", app.healthy)

	return alice.New(app.recoverPanic, app.logRequest, secureHeaders).Then(mux)
}
