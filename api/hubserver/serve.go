package hubserver

import (
	"context"
	"net/http"
	"time"

	"github.com/deltakit/deltakit/infra/logger"
)

// Serve runs the artifact server on the given address until the context is
// canceled. A dedicated ServeMux is used by NewHandler, so the server does
// not interfere with other handlers in the process.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	log := logger.New("hubserver")
	srv := &http.Server{Addr: addr, Handler: h}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("hub server shutdown: %v", err)
		}
		cancel()
	}()
	log.Infof("serving delta artifacts on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
