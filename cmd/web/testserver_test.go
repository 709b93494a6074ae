package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/gorilla/websocket"
	"github.com/justinas/nosurf"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"
)

// waitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func waitForReady(ctx context.Context, endpoint string) error {
	timeout := 1 * time.Second
	client := http.Client{} //nolint:exhaustruct // defaults
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			endpoint,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(50 * time.Millisecond) //nolint:mnd // poll interval
		}
	}
}

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "DVDCLUEDO_ADDR":
		return "localhost:0", true
	case "DVDCLUEDO_SQLITE_URL":
		return ":memory:", true
	case "DVDCLUEDO_SHOW_INTRO":
		return "false", true
	default:
		return "", false
	}
}

type testServer struct {
	url    string
	client http.Client
	jar    *unsafeCookieJar
	csrf   string
}

// startTestServer starts the test server, waits for it to be ready, and return the server URL for testing.
func startTestServer(t *testing.T, w io.Writer, lookupEnv func(string) (string, bool)) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// We need to grab the dynamically allocated port from the log output.
	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "Addr" {
				addrCh <- a.Value.String()
			}
			return a
		},
	})))

	// Start the server and wait for it to be ready.
	go func() {
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel()
			assert.NoError(t, err)
		}
	}()
	select {
	case <-ctx.Done():
		t.Fatal("server failed to start")
		return nil
	case addr := <-addrCh:
		serverURL := fmt.Sprintf("http://%s", addr)
		require.NoError(t, waitForReady(ctx, fmt.Sprintf("%s/api/healthy", serverURL)))
		return newTestClient(t, serverURL)
	}
}

// newTestClient returns a fresh browser, i.e. a new player, against the server at serverURL.
func newTestClient(t *testing.T, serverURL string) *testServer {
	t.Helper()
	jar, err := newUnsafeCookieJar()
	require.NoError(t, err)
	return &testServer{
		url:    serverURL,
		client: http.Client{Jar: jar}, //nolint:exhaustruct // defaults
		jar:    jar,
		csrf:   "",
	}
}

// State fetches the player state and remembers the CSRF token for later requests.
func (s *testServer) State(t *testing.T) stateView {
	t.Helper()
	resp, err := s.client.Get(s.url + "/api/state")
	require.NoError(t, err)
	state := decodeState(t, resp, http.StatusOK)
	require.NotEmpty(t, state.CSRFToken)
	s.csrf = state.CSRFToken
	return state
}

// Do sends a JSON request with the CSRF header and returns the response.
func (s *testServer) Do(t *testing.T, method, urlPath string, body any) *http.Response {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url+urlPath, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(nosurf.HeaderName, s.csrf)
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	return resp
}

// Post sends a JSON request and decodes the state from a successful response.
func (s *testServer) Post(t *testing.T, urlPath string, body any) stateView {
	t.Helper()
	return decodeState(t, s.Do(t, http.MethodPost, urlPath, body), http.StatusOK)
}

// Status sends a JSON request and returns only the response status code.
func (s *testServer) Status(t *testing.T, method, urlPath string, body any) int {
	t.Helper()
	resp := s.Do(t, method, urlPath, body)
	require.NoError(t, resp.Body.Close())
	return resp.StatusCode
}

// Events opens the player's event stream.
func (s *testServer) Events(t *testing.T) *websocket.Conn {
	t.Helper()
	dialer := websocket.Dialer{Jar: s.jar, HandshakeTimeout: time.Second} //nolint:exhaustruct // defaults
	conn, resp, err := dialer.Dial("ws"+strings.TrimPrefix(s.url, "http")+"/api/events", nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func decodeState(t *testing.T, resp *http.Response, wantStatus int) stateView {
	t.Helper()
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, string(body))
	var state stateView
	require.NoError(t, json.Unmarshal(body, &state), string(body))
	return state
}

// readUntil reads events until one of type eventType arrives.
func readUntil(t *testing.T, conn *websocket.Conn, eventType string) hostEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var event hostEvent
		require.NoError(t, conn.ReadJSON(&event))
		if event.Type == eventType {
			return event
		}
	}
}
