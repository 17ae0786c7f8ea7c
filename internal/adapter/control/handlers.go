package control

import (
	"encoding/json"
	"errors"
	"net/http"

	"brc-agent/internal/application/port/input"
	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"

	"github.com/go-chi/chi/v5"
)

// Waker asks for a poll cycle without waiting for it.
type Waker interface {
	Trigger(reason string)
}

// Handlers is the local replacement for the extension's options page: it
// reads and edits settings, registers, and forces a poll.
type Handlers struct {
	store     output.SettingsStore
	registrar input.Registrar
	waker     Waker
	logger    output.LoggerPort
}

func NewHandlers(store output.SettingsStore, registrar input.Registrar, waker Waker, logger output.LoggerPort) *Handlers {
	return &Handlers{
		store:     store,
		registrar: registrar,
		waker:     waker,
		logger:    logger,
	}
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	r.Get("/settings", h.HandleGetSettings)
	r.Put("/settings", h.HandlePutSettings)
	r.Post("/register", h.HandleRegister)
	r.Post("/poll", h.HandlePoll)
}

type settingsRequest struct {
	Endpoint   string `json:"server_url"`
	Credential string `json:"api_key"`
	Label      string `json:"label"`
}

type settingsResponse struct {
	BrowserID  string `json:"browser_id"`
	Label      string `json:"label"`
	Endpoint   string `json:"server_url"`
	Credential string `json:"api_key"`
	Registered bool   `json:"registered"`
}

type statusResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{OK: true})
}

func (h *Handlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("Failed to load settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toResponse(settings))
}

func (h *Handlers) HandlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	settings, err := h.registrar.Configure(r.Context(), req.Endpoint, req.Credential, req.Label)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrInvalidSettings) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, statusResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, toResponse(settings))
}

// HandleRegister always answers 200; the outcome is in the body, the same
// shape the options page used.
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if _, err := h.registrar.Register(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, statusResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{OK: true})
}

func (h *Handlers) HandlePoll(w http.ResponseWriter, _ *http.Request) {
	h.waker.Trigger("manual")
	writeJSON(w, http.StatusAccepted, statusResponse{OK: true})
}

func toResponse(s entity.Settings) settingsResponse {
	m := s.Masked()
	return settingsResponse{
		BrowserID:  m.Identity.ID,
		Label:      m.Label(),
		Endpoint:   m.Binding.Endpoint,
		Credential: m.Binding.Credential,
		Registered: m.Binding.Registered,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
