package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/club-service/internal/auth"
	"github.com/Dan9191/club-service/internal/config"
	"github.com/Dan9191/club-service/internal/feed"
	"github.com/Dan9191/club-service/internal/middleware"
	"github.com/Dan9191/club-service/internal/models"
	"github.com/Dan9191/club-service/internal/response"
	"github.com/Dan9191/club-service/internal/service"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("request body must contain a single JSON value")

var startTime = time.Now()

type Handler struct {
	svc *service.Service
	log *logrus.Logger
	cfg *config.Config
}

func NewHandler(svc *service.Service, log *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{svc: svc, log: log, cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type memberRequest struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	PhotoURL    string `json:"photo_url"`
	PresidentID *int64 `json:"president_id"`
}

// Home reports that the API is up
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": h.cfg.ClubName + " API running"})
}

// Health checks database connectivity
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := h.svc.Health(r.Context())
	dbLatency := time.Since(start)

	if err != nil {
		h.log.WithError(err).WithField("request_id", middleware.GetRequestID(r.Context())).Error("Health check failed")
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"database":   "connected",
		"db_latency": dbLatency.String(),
		"uptime":     time.Since(startTime).String(),
	})
}

// Login handles admin authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil || req.Username == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		response.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, loginResponse{Token: token})
}

// GetPresident returns the active president or null
func (h *Handler) GetPresident(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPresident(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, p)
}

// AddPresident stores a new active president
func (h *Handler) AddPresident(w http.ResponseWriter, r *http.Request) {
	var p models.President
	if err := decode(w, r, &p); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.AddPresident(r.Context(), &p); err != nil {
		h.fail(w, r, err)
		return
	}
	h.audit(r, "president", p.ID)
	response.JSON(w, http.StatusCreated, response.MessageResponse{Message: "President added", ID: p.ID})
}

// GetMembers lists members
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.ListMembers(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, members)
}

// AddMember stores a new member
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decode(w, r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	m := models.Member{Name: req.Name, Role: req.Role, PhotoURL: req.PhotoURL, PresidentID: req.PresidentID}
	if err := h.svc.AddMember(r.Context(), &m); err != nil {
		h.fail(w, r, err)
		return
	}
	h.audit(r, "member", m.ID)
	response.JSON(w, http.StatusCreated, response.MessageResponse{Message: "Member added", ID: m.ID})
}

// GetEvents lists events, newest first
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, events)
}

// AddEvent stores a new event
func (h *Handler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if err := decode(w, r, &e); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.AddEvent(r.Context(), &e); err != nil {
		h.fail(w, r, err)
		return
	}
	h.audit(r, "event", e.ID)
	response.JSON(w, http.StatusCreated, response.MessageResponse{Message: "Event added", ID: e.ID})
}

// EventsFeed serves events as RSS
func (h *Handler) EventsFeed(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	body, err := feed.BuildRSS(feed.Channel{
		Title:       h.cfg.ClubName + " events",
		Link:        h.cfg.SiteURL,
		Description: fmt.Sprintf("Upcoming and past events of %s", h.cfg.ClubName),
	}, events, time.Now())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Contact stores a contact-form message and emails the club
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if err := decode(w, r, &msg); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	notified, err := h.svc.SubmitContact(r.Context(), &models.ContactMessage{
		Name:    msg.Name,
		Email:   msg.Email,
		Message: msg.Message,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !notified {
		response.JSON(w, http.StatusAccepted, response.MessageResponse{Message: "Message received"})
		return
	}
	response.JSON(w, http.StatusOK, response.MessageResponse{Message: "Message sent"})
}

// fail maps service errors: bad input is echoed, anything else is a generic 500
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrInvalidInput) {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	h.internalError(w, r, err)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(r.Context()),
		"path":       r.URL.Path,
	}).Error("Request failed")
	response.Error(w, http.StatusInternalServerError, "Internal server error")
}

func (h *Handler) audit(r *http.Request, kind string, id int64) {
	admin, _ := middleware.AdminFromContext(r.Context())
	h.log.WithFields(logrus.Fields{
		"admin": admin,
		"kind":  kind,
		"id":    id,
	}).Info("Record created")
}

// decode reads exactly one JSON value from the body
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
