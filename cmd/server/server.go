package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"triage-server/internal/config"
	"triage-server/internal/infrastructure/logger"
	"triage-server/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HTTPServer
}

// Start runs the API server and the metrics listener until either fails.
func (application *Application) Start() {
	cfg := config.GetGlobal()

	var eg errgroup.Group
	eg.Go(func() error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		return http.ListenAndServe(fmt.Sprintf(":%d", cfg.MetricsPort), mux)
	})
	eg.Go(func() error {
		return application.httpServer.Run()
	})

	if err := eg.Wait(); err != nil {
		panic(err)
	}
}

func main() {
	log := logger.GetLogger()

	application, err := CreateApplication()
	if err != nil {
		log.Fatal().Err(err).Msg("create application")
	}

	application.Start()
}
