// Command agentrtd is a runnable reference binary around the agent runtime
// core library: it wires config.Load, an echo ExecRunner, runtime.Builder,
// and httpapi.NewRouter behind a graceful-shutdown HTTP server. It exists
// to exercise the library end to end; hosts embedding the library in their
// own process will typically skip this binary and call runtime.Builder
// directly.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tegglabs/agentrt/config"
	"github.com/tegglabs/agentrt/httpapi"
	"github.com/tegglabs/agentrt/runtime"
	"github.com/tegglabs/agentrt/store/filestore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx := context.Background()
	agentRT, err := runtime.Builder{
		ExecRun: echoExecRunner{},
		Store:   filestore.New(cfg.DataDir),
	}.Build(ctx)
	if err != nil {
		logger.Error("build agent runtime", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealthz)
	mux.Handle("/", httpapi.NewRouter(agentRT))

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serverErrCh <- err
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrCh:
		if err != nil {
			logger.Error("server exited", "error", err)
			os.Exit(1)
		}
		return
	case <-sigCtx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown timed out; forcing close", "error", err)
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", "error", closeErr)
			os.Exit(1)
		}
	}

	if err := agentRT.Close(context.Background()); err != nil {
		logger.Error("close agent runtime", "error", err)
	}

	if err := <-serverErrCh; err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}
