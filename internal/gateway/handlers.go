package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/amir656/polytrage/internal/gateway/hub"
	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/pkg/models"
)

const defaultListLimit = 50

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin restriction is handled by the CORS middleware on the
		// HTTP side; the ws endpoint accepts all origins
		return true
	},
}

// Store is the persistence surface the gateway reads and writes
type Store interface {
	ListOpportunities(ctx context.Context, limit int) ([]models.Opportunity, error)
	ListTrades(ctx context.Context, limit int) ([]models.TradeExecution, error)
	GetUserPolicy(ctx context.Context, userAddress string) (*models.UserPolicy, error)
	UpsertUserPolicy(ctx context.Context, policy models.UserPolicy) error
}

// Handler serves the read API and the live WebSocket feed
type Handler struct {
	store Store
	hub   *hub.Hub
	ctx   context.Context
	log   *logrus.Entry
}

// NewHandler creates a gateway handler. The context governs the lifetime
// of WebSocket client pumps.
func NewHandler(ctx context.Context, store Store, h *hub.Hub) *Handler {
	return &Handler{
		store: store,
		hub:   h,
		ctx:   ctx,
		log:   logging.Component("gateway"),
	}
}

// Router builds the gateway HTTP routes
func (h *Handler) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/opportunities", h.ListOpportunities)
		r.Get("/trades", h.ListTrades)
		r.Get("/policy", h.GetPolicy)
		r.Put("/policy", h.UpdatePolicy)
	})

	return r
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "gateway",
		"active_clients": h.hub.ClientCount(),
	})
}

// ListOpportunities returns recent detected opportunities
func (h *Handler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	opportunities, err := h.store.ListOpportunities(r.Context(), listLimit(r))
	if err != nil {
		h.log.WithError(err).Error("Failed to list opportunities")
		respondError(w, http.StatusInternalServerError, "failed to list opportunities")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"opportunities": opportunities,
		"count":         len(opportunities),
	})
}

// ListTrades returns recent trade executions
func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.store.ListTrades(r.Context(), listLimit(r))
	if err != nil {
		h.log.WithError(err).Error("Failed to list trades")
		respondError(w, http.StatusInternalServerError, "failed to list trades")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"trades": trades,
		"count":  len(trades),
	})
}

// GetPolicy returns the demo user's policy
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.store.GetUserPolicy(r.Context(), models.DefaultUserPolicy().UserAddress)
	if err != nil {
		h.log.WithError(err).Error("Failed to load policy")
		respondError(w, http.StatusInternalServerError, "failed to load policy")
		return
	}
	if policy == nil {
		respondError(w, http.StatusNotFound, "policy not found")
		return
	}

	respondJSON(w, http.StatusOK, policy)
}

// UpdatePolicy replaces the demo user's policy
func (h *Handler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var policy models.UserPolicy
	if err := json.NewDecoder(r.Body).Decode(&policy); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}

	if policy.UserAddress == "" {
		policy.UserAddress = models.DefaultUserPolicy().UserAddress
	}
	if policy.Bankroll <= 0 {
		respondError(w, http.StatusBadRequest, "bankroll must be positive")
		return
	}
	if policy.MinBetSize < 0 || policy.MaxBetSize < policy.MinBetSize {
		respondError(w, http.StatusBadRequest, "bet size bounds are invalid")
		return
	}

	if err := h.store.UpsertUserPolicy(r.Context(), policy); err != nil {
		h.log.WithError(err).Error("Failed to update policy")
		respondError(w, http.StatusInternalServerError, "failed to update policy")
		return
	}

	h.log.WithField("user", policy.UserAddress).Info("Policy updated")
	respondJSON(w, http.StatusOK, policy)
}

// HandleWebSocket upgrades the connection and attaches it to the hub
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	clientID := uuid.New().String()
	c := hub.NewClient(clientID, conn, h.hub)

	h.hub.Register(c)

	// Pumps use the handler context, not the request context
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)

	h.log.WithField("client_id", clientID).Info("WebSocket connection established")
}

func listLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= 500 {
			return limit
		}
	}
	return defaultListLimit
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
