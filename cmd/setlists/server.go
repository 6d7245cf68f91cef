package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"setlists/internal/app/categories"
	"setlists/internal/app/setlists"
	"setlists/internal/app/songs"
	"setlists/internal/app/users"
	"setlists/internal/auth"
	"setlists/internal/config"
	"setlists/internal/http/middleware"
	"setlists/internal/httpapi"
	"setlists/internal/metrics"
	"setlists/internal/store"
)

func newHTTPHandler(cfg *config.Config, dataStore *store.Store) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	authenticator := auth.NewAuthenticator(
		[]byte(cfg.Security.SessionSecret),
		cfg.Security.SessionIssuer,
		dataStore,
	)

	api := httpapi.New(
		authenticator,
		users.New(dataStore),
		songs.New(dataStore),
		categories.New(dataStore),
		setlists.New(dataStore),
	)

	root := http.NewServeMux()
	root.Handle("/metrics", httpMetrics.Handler())
	root.Handle("/", middleware.Chain(api.Routes(httpMetrics.Middleware),
		middleware.RequestLogging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	))
	return root, nil
}
