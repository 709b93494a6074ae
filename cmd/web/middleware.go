package main

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/justinas/nosurf"
	"github.com/myrjola/dvdcluedo/internal/contexthelpers"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/logging"
	"log/slog"
	"net/http"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The host only serves JSON and the event stream, the player UI lives elsewhere.
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "received request",
			slog.String("proto", r.Proto),
			slog.String("method", r.Method),
			slog.String("uri", r.URL.RequestURI()))

		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, errors.New(fmt.Sprintf("%v", err)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// identifyPlayer gives every browser session an anonymous player id that keys its game and save slot.
// It must run inside sessionManager.LoadAndSave.
func (app *application) identifyPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		playerID := app.sessionManager.GetString(ctx, string(playerIDSessionKey))
		if playerID == "" {
			playerID = uuid.NewString()
			app.sessionManager.Put(ctx, string(playerIDSessionKey), playerID)
		}
		r = contexthelpers.SetPlayerID(r, playerID)
		r = r.WithContext(logging.WithAttrs(r.Context(), slog.String("player_id", playerID)))
		next.ServeHTTP(w, r)
	})
}

// eventStreamSession makes our session library scs work with the websocket event stream.
// Use this instead of app.sessionManager.LoadAndSave, which buffers the response and cannot be hijacked.
// The session is only read, so the player must already be known from an earlier API request.
// See https://github.com/alexedwards/scs/issues/141#issuecomment-1807075358
func (app *application) eventStreamSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		cookie, err := r.Cookie(app.sessionManager.Cookie.Name)
		if err == nil {
			token = cookie.Value
		}
		ctx, err := app.sessionManager.Load(r.Context(), token)
		if err != nil {
			app.serverError(w, r, errors.Wrap(err, "load session"))
			return
		}
		playerID := app.sessionManager.GetString(ctx, string(playerIDSessionKey))
		if playerID == "" {
			app.clientError(w, r, http.StatusUnauthorized, errors.New("event stream without player"))
			return
		}
		r = contexthelpers.SetPlayerID(r.WithContext(ctx), playerID)
		r = r.WithContext(logging.WithAttrs(r.Context(), slog.String("player_id", playerID)))
		next.ServeHTTP(w, r)
	})
}

func commonContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = contexthelpers.SetCSRFToken(r, nosurf.Token(r))
		next.ServeHTTP(w, r)
	})
}

// noSurf implements CSRF protection using https://github.com/justinas/nosurf.
// Clients read the token from GET /api/state and echo it in the X-CSRF-Token header.
func (app *application) noSurf(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(next)
	csrfHandler.SetBaseCookie(http.Cookie{ //nolint:exhaustruct // remaining fields keep defaults
		HttpOnly: true,
		Path:     "/",
		Secure:   app.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.clientError(w, r, http.StatusForbidden, errors.Wrap(nosurf.Reason(r), "csrf"))
	}))
	return csrfHandler
}
