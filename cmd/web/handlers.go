package main

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/contexthelpers"
	"github.com/myrjola/dvdcluedo/internal/engine"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"net/http"
)

// play runs op against the requesting player's engine and responds with the resulting state.
func (app *application) play(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, e *engine.Engine) error) {
	ctx := r.Context()
	var view stateView
	err := app.players.do(ctx, contexthelpers.PlayerID(ctx), func(e *engine.Engine) error {
		opErr := op(ctx, e)
		var viewErr error
		view, viewErr = app.state(ctx, e)
		return errors.Join(opErr, viewErr)
	})
	switch {
	case err == nil:
		app.writeJSON(w, r, http.StatusOK, view)
	case errors.Is(err, engine.ErrInvalidButton), errors.Is(err, engine.ErrUnknownCase):
		app.clientError(w, r, http.StatusBadRequest, err)
	case errors.Is(err, engine.ErrNoSave):
		app.clientError(w, r, http.StatusConflict, err)
	default:
		app.serverError(w, r, err)
	}
}

func (app *application) state(ctx context.Context, e *engine.Engine) (stateView, error) {
	canContinue, err := e.CanContinue(ctx)
	if err != nil {
		return stateView{}, errors.Wrap(err, "can continue") //nolint:exhaustruct // error
	}
	return newStateView(e.Status(), canContinue, contexthelpers.CSRFToken(ctx)), nil
}

func (app *application) getState(w http.ResponseWriter, r *http.Request) {
	app.play(w, r, func(context.Context, *engine.Engine) error { return nil })
}

func (app *application) ready(w http.ResponseWriter, r *http.Request) {
	app.play(w, r, func(ctx context.Context, e *engine.Engine) error {
		return e.MediaReady(ctx)
	})
}

func (app *application) ended(w http.ResponseWriter, r *http.Request) {
	app.play(w, r, func(ctx context.Context, e *engine.Engine) error {
		_, err := e.NaturalEnd(ctx)
		return err
	})
}

func (app *application) retry(w http.ResponseWriter, r *http.Request) {
	app.play(w, r, func(ctx context.Context, e *engine.Engine) error {
		return e.Retry(ctx)
	})
}

type pressRequest struct {
	Slot int `json:"slot"`
}

func (app *application) press(w http.ResponseWriter, r *http.Request) {
	var req pressRequest
	if err := readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, err)
		return
	}
	app.play(w, r, func(ctx context.Context, e *engine.Engine) error {
		return e.Press(ctx, req.Slot)
	})
}

type caseRequest struct {
	Case int `json:"case"`
}

func (app *application) startCase(w http.ResponseWriter, r *http.Request) {
	var req caseRequest
	if err := readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, err)
		return
	}
	app.play(w, r, func(ctx context.Context, e *engine.Engine) error {
		return e.StartCase(ctx, req.Case)
	})
}

func (app *application) continueGame(w http.ResponseWriter, r *http.Request) {
	app.play(w, r, func(ctx context.Context, e *engine.Engine) error {
		return e.Continue(ctx)
	})
}

type rotateRequest struct {
	Delta int `json:"delta"`
}

func (app *application) rotateSelection(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if err := readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, err)
		return
	}
	app.play(w, r, func(_ context.Context, e *engine.Engine) error {
		e.Rotate(req.Delta)
		return nil
	})
}

func (app *application) confirmSelection(w http.ResponseWriter, r *http.Request) {
	app.play(w, r, func(ctx context.Context, e *engine.Engine) error {
		return e.Confirm(ctx)
	})
}

func (app *application) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsView
	if err := readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, err)
		return
	}
	app.play(w, r, func(ctx context.Context, e *engine.Engine) error {
		return e.UpdateSettings(ctx, req.settings())
	})
}
