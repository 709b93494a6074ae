package main

import (
	"context"
	"encoding/json"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/logging"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"
)

// state is the slice of the game state the smoke test looks at.
type state struct {
	Clip      string `json:"clip"`
	URL       string `json:"url"`
	CSRFToken string `json:"csrfToken"`
}

type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) (*client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "new cookie jar")
	}
	return &client{
		baseURL: baseURL,
		http: &http.Client{ //nolint:exhaustruct // defaults
			Jar:     jar,
			Timeout: 5 * time.Second, //nolint:mnd // 5 seconds
		},
	}, nil
}

func (c *client) do(ctx context.Context, method, path, csrfToken, body string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "new request")
	}
	req.Header.Set("Referer", c.baseURL+"/")
	if csrfToken != "" {
		req.Header.Set("X-CSRF-Token", csrfToken)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	var resp *http.Response
	if resp, err = c.http.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, errors.New("unexpected status", slog.String("path", path), slog.Int("status", resp.StatusCode))
	}
	return resp, nil
}

func (c *client) state(ctx context.Context, method, path, csrfToken string) (state, error) {
	var s state
	resp, err := c.do(ctx, method, path, csrfToken, "")
	if err != nil {
		return s, err
	}
	defer resp.Body.Close()
	if err = json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return s, errors.Wrap(err, "decode state", slog.String("path", path))
	}
	return s, nil
}

// TestGame checks that the host is healthy and that a fresh player can start watching.
func TestGame(c *client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, "/api/healthy", "", "")
	if err != nil {
		return errors.Wrap(err, "healthy")
	}
	_ = resp.Body.Close()

	var s state
	if s, err = c.state(ctx, http.MethodGet, "/api/state", ""); err != nil {
		return errors.Wrap(err, "fetch state")
	}
	if s.Clip == "" || s.URL == "" {
		return errors.New("no clip playing", slog.String("clip", s.Clip))
	}
	if s.CSRFToken == "" {
		return errors.New("no csrf token")
	}
	clip := s.Clip
	if s, err = c.state(ctx, http.MethodPost, "/api/ready", s.CSRFToken); err != nil {
		return errors.Wrap(err, "report ready")
	}
	if s.Clip != clip {
		return errors.New("clip changed on ready", slog.String("before", clip), slog.String("after", s.Clip))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		c        *client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if c, err = newClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestGame(c); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing game", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
