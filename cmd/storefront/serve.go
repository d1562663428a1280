package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

// serve runs server and background workers until ctx is done.
// Dispatcher stops after server shutdown returns, so notifications queued by in-flight requests are sent.
func serve(ctx context.Context, srv *http.Server, ln net.Listener,
	dispatcher *worker.NotificationDispatcher, sweeper worker.Sweeper) error {
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dispatcher.ProcessNotifications(dispatchCtx)
		return nil
	})
	g.Go(func() error {
		worker.SweepRateLimits(gctx, sweeper, sweepInterval)
		return nil
	})
	g.Go(func() error {
		logger.Log.Info("Running server", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer stopDispatch()

		<-gctx.Done()
		logger.Log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
