package controller

import (
	"github.com/bluclinic/appointment-service/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the appointment endpoints onto a chi router with the
// shared middleware stack.
func NewRouter(appointments *service.AppointmentService, logger *zap.Logger) *chi.Mux {
	router := chi.NewRouter()

	router.Use(RequestID)
	router.Use(RequestLogger(logger))
	router.Use(middleware.Recoverer)

	handler := NewAppointmentHandler(appointments, logger)

	router.Route("/appointments", func(r chi.Router) {
		r.Post("/", handler.Create)
		r.Get("/", handler.ListAll)
		r.Get("/open", handler.ListOpen)
		r.Get("/by-phone", handler.ListByPhoneNumber)
		r.Post("/{id}/book", handler.Book)
		r.Delete("/{id}", handler.Delete)
	})

	return router
}
