// Package trigger exposes digest jobs to external schedulers over HTTP.
package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/sellerpulse/internal/domain"
	"github.com/andresuchdata/sellerpulse/internal/service"
)

const TokenHeader = "X-Trigger-Token"

// DigestRunner is the part of the digest service the trigger needs.
type DigestRunner interface {
	Run(ctx context.Context, mp domain.Marketplace, kind domain.DigestKind) (service.DigestResult, error)
}

type Handler struct {
	digests DigestRunner
	token   string
}

// NewHandler builds the trigger handler. An empty token disables the check.
func NewHandler(digests DigestRunner, token string) *Handler {
	return &Handler{digests: digests, token: token}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/health", h.Health).Methods("GET")
	router.HandleFunc("/api/digest/{marketplace}/{kind}", h.RunDigest).Methods("POST")
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) RunDigest(w http.ResponseWriter, r *http.Request) {
	if h.token != "" && r.Header.Get(TokenHeader) != h.token {
		http.Error(w, "invalid trigger token", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	mp, ok := domain.ParseMarketplace(vars["marketplace"])
	if !ok {
		http.Error(w, "unknown marketplace: "+vars["marketplace"], http.StatusNotFound)
		return
	}
	kind, ok := domain.ParseDigestKind(vars["kind"])
	if !ok {
		http.Error(w, "invalid digest kind: "+vars["kind"], http.StatusBadRequest)
		return
	}

	result, err := h.digests.Run(r.Context(), mp, kind)
	switch {
	case errors.Is(err, service.ErrDigestInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		log.Error().Err(err).Str("marketplace", string(mp)).Str("kind", string(kind)).Msg("trigger: digest failed")
		http.Error(w, "digest failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result.Run)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("trigger: encode response failed")
	}
}
