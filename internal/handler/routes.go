package handler

import (
	"net/http"

	"github.com/Dan9191/club-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires public routes and the token-gated /admin routes.
// Request ids and access logs wrap the whole router so unmatched paths are covered too.
func NewRouter(h *Handler, tokens middleware.TokenValidator, log *logrus.Logger) http.Handler {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/president", h.GetPresident).Methods(http.MethodGet)
	r.HandleFunc("/members", h.GetMembers).Methods(http.MethodGet)
	r.HandleFunc("/events", h.GetEvents).Methods(http.MethodGet)
	r.HandleFunc("/events/feed.xml", h.EventsFeed).Methods(http.MethodGet)
	r.HandleFunc("/contact", h.Contact).Methods(http.MethodPost)
	r.HandleFunc("/admin/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	adminRouter := r.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AuthMiddleware(tokens, log))
	adminRouter.HandleFunc("/president", h.AddPresident).Methods(http.MethodPost)
	adminRouter.HandleFunc("/members", h.AddMember).Methods(http.MethodPost)
	adminRouter.HandleFunc("/events", h.AddEvent).Methods(http.MethodPost)

	return middleware.RequestID(middleware.Logging(log)(r))
}
