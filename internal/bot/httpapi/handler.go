package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/snackerbot/server/internal/bot/dispatch"
	"github.com/snackerbot/server/internal/bot/model"
	logx "github.com/snackerbot/server/pkg/logger"
)

const MaxBodyBytes = 4 << 10

// CacheStatus reports what the menu cache currently holds.
type CacheStatus interface {
	IsFresh() bool
	Stamp() (model.Date, bool)
}

// Handler exposes the selection flow and the manual refresh over HTTP.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	cache      CacheStatus
}

func NewHandler(dispatcher *dispatch.Dispatcher, cache CacheStatus) *Handler {
	return &Handler{dispatcher: dispatcher, cache: cache}
}

// Router builds the chi router with all routes registered.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Post("/admin/refresh", h.Refresh)
	r.Route("/menus", func(r chi.Router) {
		r.Get("/", h.Start)
		r.Post("/choice", h.Choose)
	})
}

type healthResponse struct {
	Fresh     bool   `json:"fresh"`
	CachedFor string `json:"cached_for,omitempty"`
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stamp, _ := h.cache.Stamp()
	respondJSON(w, http.StatusOK, healthResponse{Fresh: h.cache.IsFresh(), CachedFor: stamp.String()})
}

// Refresh handles POST /admin/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	respondDispatch(w, h.dispatcher.HandleRefresh(r.Context()))
}

// Start handles GET /menus?hall=&meal=&vegetarian=
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	veg := false
	if raw := q.Get("vegetarian"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "vegetarian must be a boolean")
			return
		}
		veg = parsed
	}

	resp := h.dispatcher.HandleCommand(r.Context(), dispatch.CommandEvent{
		Hall:       q.Get("hall"),
		Meal:       q.Get("meal"),
		Vegetarian: veg,
	})
	respondDispatch(w, resp)
}

type choiceRequest struct {
	Token    string `json:"token"`
	Selected string `json:"selected"`
}

// Choose handles POST /menus/choice
func (h *Handler) Choose(w http.ResponseWriter, r *http.Request) {
	var req choiceRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil || json.Unmarshal(body, &req) != nil || req.Token == "" || req.Selected == "" {
		respondError(w, http.StatusBadRequest, "token and selected are required")
		return
	}

	resp := h.dispatcher.HandleChoice(r.Context(), dispatch.ChoiceEvent{Token: req.Token, Selected: req.Selected})
	respondDispatch(w, resp)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

// respondDispatch writes a dispatcher response with the failure status it carries.
func respondDispatch(w http.ResponseWriter, resp dispatch.Response) {
	status := http.StatusOK
	if resp.Status != 0 {
		status = resp.Status
	}
	respondJSON(w, status, resp)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
