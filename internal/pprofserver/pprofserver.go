// Package pprofserver exposes the runtime profiles on a separate loopback listener.
package pprofserver

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"
)

func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

// Launch serves pprof at addr until ctx is done. Keep addr on a loopback interface so that it's not open to the
// world. Serve errors are logged and never stop the game server.
func Launch(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	Handle(mux)
	srv := &http.Server{ //nolint:exhaustruct // profiles stream for longer than any fixed timeout
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
	go func() {
		<-ctx.Done()
		if err := srv.Close(); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close pprof server", errors.SlogError(err))
		}
	}()
	go func() {
		logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("addr", addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server", errors.SlogError(err))
		}
	}()
}
