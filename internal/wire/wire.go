package wire

import (
	"net/http"

	"reservation-bot/internal/adaptor"
	"reservation-bot/internal/data/repository"
	"reservation-bot/internal/usecase"
	"reservation-bot/pkg/metrics"
	"reservation-bot/pkg/middleware"
	"reservation-bot/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the assembled router and services.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services and handlers on top of repo and mounts every route.
func Wiring(
	repo *repository.Repository,
	collab usecase.Collaborators,
	registry *prometheus.Registry,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := metrics.NewBotMetrics(registry)
	service := usecase.NewService(repo, collab, config, m, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, repo, registry, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	registry *prometheus.Registry,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wireWebhook(r, handler.Webhook, handler.Message, repo, config, logger)
	wireAuth(r, handler.Auth, repo, config, logger)
	wireBusiness(r, handler.Business, repo, config, logger)
	wireReservation(r, handler.Reservation, repo, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return r
}
