package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crewcast/shootflow-backend/api/controllers"
	requestcontrollers "github.com/crewcast/shootflow-backend/api/controllers/requests"
	"github.com/crewcast/shootflow-backend/api/middleware"
	"github.com/crewcast/shootflow-backend/internal/directory"
	"github.com/crewcast/shootflow-backend/internal/requests"
	"github.com/crewcast/shootflow-backend/pkg/config"
	"github.com/crewcast/shootflow-backend/pkg/db"
	"github.com/crewcast/shootflow-backend/pkg/enums"
	"github.com/crewcast/shootflow-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	directoryService directory.Service,
	requestsService requests.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor(directoryService, logg))

		r.Route("/directory", func(r chi.Router) {
			r.With(middleware.RequireRole(logg, enums.PositionAdmin, enums.PositionHeadOfReporters)).
				Get("/drivers", controllers.ListDrivers(directoryService, logg))
			r.With(middleware.RequireRole(logg, enums.PositionEquipmentCustodian)).
				Get("/equipment/available", controllers.ListAvailableEquipment(directoryService, logg))
			r.Get("/users/{userID}", controllers.GetDirectoryUser(directoryService, logg))
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", requestcontrollers.Create(requestsService, logg))
			r.Get("/", requestcontrollers.List(requestsService, logg))
			r.Get("/mine", requestcontrollers.ListMine(requestsService, logg))
			r.Get("/pending", requestcontrollers.ListPending(requestsService, logg))

			r.Route("/{requestID}", func(r chi.Router) {
				r.Get("/", requestcontrollers.Detail(requestsService, logg))
				r.Patch("/", requestcontrollers.UpdateDraft(requestsService, logg))

				// Lifecycle commands. Role and ownership checks live in the
				// state machine so every caller gets the same conflict shape.
				r.Post("/submit", requestcontrollers.Submit(requestsService, logg))
				r.Post("/approve", requestcontrollers.Approve(requestsService, logg))
				r.Post("/reject", requestcontrollers.Reject(requestsService, logg))
				r.Post("/equipment", requestcontrollers.AssignEquipment(requestsService, logg))
				r.Post("/trip/start", requestcontrollers.StartTrip(requestsService, logg))
				r.Post("/trip/status", requestcontrollers.UpdateTrip(requestsService, logg))
				r.Post("/trip/complete", requestcontrollers.CompleteTrip(requestsService, logg))
				r.Post("/equipment/return", requestcontrollers.ConfirmEquipmentReturn(requestsService, logg))
				r.Post("/finalize", requestcontrollers.Finalize(requestsService, logg))

				r.Post("/locations", requestcontrollers.AddExtraLocation(requestsService, logg))
				r.Post("/locations/{locationID}/approve", requestcontrollers.ApproveExtraLocation(requestsService, logg))
				r.Post("/reporter", requestcontrollers.ChangeReporter(requestsService, logg))
			})
		})
	})

	return r
}
