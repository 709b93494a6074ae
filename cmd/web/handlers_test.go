package main

import (
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestHealthy(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv)
	resp, err := server.client.Get(server.url + "/api/healthy")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, string(body))
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestPlayThrough(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv)

	state := server.State(t)
	require.Equal(t, "MainMenu", state.Clip)
	require.Equal(t, -1, state.Case)
	require.False(t, state.Ready)
	require.False(t, state.CanContinue)

	events := server.Events(t)
	first := readUntil(t, events, eventState)
	require.Equal(t, "MainMenu", first.State.Clip)

	state = server.Post(t, "/api/ready", nil)
	require.True(t, state.Ready)
	require.Equal(t, "MainMenu", state.Buttons.Layout)
	require.Equal(t, "static", state.Buttons.Slots[0].Kind)
	buttons := readUntil(t, events, eventButtons)
	require.Equal(t, "MainMenu", buttons.Buttons.Layout)

	// Without the intro the first case goes straight to its menu. The first menu visit does not save.
	state = server.Post(t, "/api/press", pressRequest{Slot: 0})
	require.Equal(t, 0, state.Case)
	require.Equal(t, "The Mansion Murder", state.CaseName)
	require.Equal(t, "MansionMenu", state.Clip)
	require.Equal(t, "MainMenu", state.Previous)
	require.False(t, state.CanContinue)
	play := readUntil(t, events, eventPlay)
	require.Equal(t, "MansionMenu", play.Playback.Clip)
	require.True(t, play.Playback.Loop)
	require.True(t, strings.HasSuffix(play.Playback.URL, "/MansionMenu.mp4"), play.Playback.URL)

	state = server.Post(t, "/api/ready", nil)
	require.Equal(t, "CaseMenu", state.Buttons.Layout)
	require.Equal(t, []slotView{
		{Kind: "disabled", Clip: ""},
		{Kind: "disabled", Clip: ""},
		{Kind: "disabled", Clip: ""},
		{Kind: "disabled", Clip: ""},
		{Kind: "link", Clip: "AccusationStart"},
		{Kind: "link", Clip: "RESTARTGAME"},
	}, state.Buttons.Slots)

	require.Equal(t, http.StatusBadRequest, server.Status(t, http.MethodPost, "/api/press", pressRequest{Slot: 99}))
	require.Equal(t, http.StatusBadRequest, server.Status(t, http.MethodPost, "/api/case", caseRequest{Case: 99}))
	require.Equal(t, http.StatusBadRequest, server.Status(t, http.MethodPost, "/api/press", map[string]int{"nope": 1}))
	require.Equal(t, http.StatusConflict, server.Status(t, http.MethodPost, "/api/continue", nil))

	// Accuse with the bundled solution of the first case.
	server.Post(t, "/api/press", pressRequest{Slot: 4})
	server.Post(t, "/api/ready", nil)
	state = server.Post(t, "/api/press", pressRequest{Slot: 0})
	require.Equal(t, "SelectionLetterReady", state.Clip)
	server.Post(t, "/api/ready", nil)
	readUntil(t, events, eventOverlay)
	state = server.Post(t, "/api/press", pressRequest{Slot: 0})
	require.True(t, state.Selecting)
	for _, want := range []int{2, 0, 4, 1} {
		state = server.Post(t, "/api/ready", nil)
		state = server.Post(t, "/api/selection/rotate", rotateRequest{Delta: want - state.SelectionIndex})
		require.Equal(t, want, state.SelectionIndex)
		state = server.Post(t, "/api/selection/confirm", nil)
	}
	require.False(t, state.Selecting)
	require.Equal(t, "Results4", state.Clip)
	require.Equal(t, 4, state.Correct)
	state = server.Post(t, "/api/ready", nil)
	require.Equal(t, "ResultsOk", state.Buttons.Layout)
	require.Equal(t, "MansionEnding", state.Buttons.Slots[0].Clip)
}

func TestSettings(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv)
	state := server.State(t)
	require.InDelta(t, 1.0, state.Settings.Speed, 0.0001)

	resp := server.Do(t, http.MethodPut, "/api/settings", settingsView{
		Speed: 9, Volume: 0.5, MenuMusic: false, Subtitles: true, Highlight: true,
	})
	state = decodeState(t, resp, http.StatusOK)
	require.InDelta(t, 5.0, state.Settings.Speed, 0.0001, "speed is clamped")
	require.InDelta(t, 0.5, state.Settings.Volume, 0.0001)
	require.True(t, state.Settings.Subtitles)

	require.InDelta(t, 5.0, server.State(t).Settings.Speed, 0.0001)
}

func TestCSRF(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv)
	server.State(t)
	server.csrf = "forged"
	require.Equal(t, http.StatusForbidden, server.Status(t, http.MethodPost, "/api/ready", nil))
}

func TestPlayersAreIsolated(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv)
	server.State(t)
	server.Post(t, "/api/case", caseRequest{Case: 1})

	other := newTestClient(t, server.url)
	state := other.State(t)
	require.Equal(t, -1, state.Case)
	require.False(t, state.CanContinue)
	require.Equal(t, http.StatusConflict, other.Status(t, http.MethodPost, "/api/continue", nil))
}

func TestEventsRequirePlayer(t *testing.T) {
	server := startTestServer(t, io.Discard, testLookupEnv)
	dialer := websocket.Dialer{HandshakeTimeout: time.Second} //nolint:exhaustruct // no cookies
	_, resp, err := dialer.Dial("ws"+strings.TrimPrefix(server.url, "http")+"/api/events", nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
}
