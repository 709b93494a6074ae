package main

import (
	"context"
	"github.com/gorilla/websocket"
	"github.com/myrjola/dvdcluedo/internal/contexthelpers"
	"github.com/myrjola/dvdcluedo/internal/engine"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"log/slog"
	"net/http"
	"time"
)

const (
	eventBuffer      = 64
	eventWriteWait   = 10 * time.Second
	eventPingPeriod  = 30 * time.Second
	eventPongWait    = eventPingPeriod + eventWriteWait
	eventReadLimit   = 512
	eventSocketBytes = 1024
)

var upgrader = websocket.Upgrader{ //nolint:exhaustruct // defaults check the origin against the host
	ReadBufferSize:  eventSocketBytes,
	WriteBufferSize: eventSocketBytes,
}

// events streams the player's host events over a websocket, starting with a full state snapshot.
func (app *application) events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := contexthelpers.PlayerID(ctx)

	// Subscribe before taking the snapshot so no event between the two is lost.
	stream, unsubscribe := app.hub.Subscribe(playerID, eventBuffer)
	defer unsubscribe()

	var snapshot stateView
	if err := app.players.do(ctx, playerID, func(e *engine.Engine) error {
		var err error
		snapshot, err = app.state(ctx, e)
		return err
	}); err != nil {
		app.serverError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already responded to the client.
		app.logger.LogAttrs(ctx, slog.LevelDebug, "upgrade event stream", errors.SlogError(err))
		return
	}
	defer func() {
		if err = conn.Close(); err != nil {
			app.logger.LogAttrs(ctx, slog.LevelDebug, "close event stream", errors.SlogError(err))
		}
	}()

	closed := app.readEventSocket(ctx, conn)

	ping := time.NewTicker(eventPingPeriod)
	defer ping.Stop()

	if err = writeEvent(conn, hostEvent{Type: eventState, State: &snapshot}); err != nil { //nolint:exhaustruct // state event
		app.logger.LogAttrs(ctx, slog.LevelDebug, "write state", errors.SlogError(err))
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case <-ping.C:
			if err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventWriteWait)); err != nil {
				return
			}
		case event, ok := <-stream:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(eventWriteWait))
				return
			}
			if err = writeEvent(conn, event); err != nil {
				app.logger.LogAttrs(ctx, slog.LevelDebug, "write event", errors.SlogError(err))
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, event hostEvent) error {
	if err := conn.SetWriteDeadline(time.Now().Add(eventWriteWait)); err != nil {
		return errors.Wrap(err, "set write deadline")
	}
	if err := conn.WriteJSON(event); err != nil {
		return errors.Wrap(err, "write json", slog.String("type", event.Type))
	}
	return nil
}

// readEventSocket discards client messages so control frames are processed. The returned channel closes when the
// client goes away.
func (app *application) readEventSocket(ctx context.Context, conn *websocket.Conn) <-chan struct{} {
	closed := make(chan struct{})
	conn.SetReadLimit(eventReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(eventPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				app.logger.LogAttrs(ctx, slog.LevelDebug, "event stream closed", errors.SlogError(err))
				return
			}
		}
	}()
	return closed
}
