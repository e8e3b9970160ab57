package app

import (
	"errors"
	"net"
	"net/http"
	"time"
)

// serveMetrics exposes the Prometheus registry on addr at /metrics.
func (app *Application) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	app.server = srv
	app.metricsAddr = ln.Addr().String()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.log.Error("metrics listener: %v", err)
		}
	}()
	app.log.Info("serving metrics on %s", app.metricsAddr)
	return nil
}
