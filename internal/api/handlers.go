// Package api exposes the recommender over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"reco/internal/domain"
	"reco/internal/logging"
	"reco/internal/usecase"
)

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	svc *usecase.Service
}

func NewHandler(svc *usecase.Service) *Handler {
	return &Handler{svc: svc}
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, statusResponse{Status: "ok", Products: h.svc.CurrentSize()})
}

// HandleReload handles POST /reload.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.Reload(r.Context(), nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("reload failed")
		sendJSON(w, http.StatusServiceUnavailable, statusResponse{
			Status:   "unchanged",
			Products: h.svc.CurrentSize(),
			Error:    err.Error(),
		})
		return
	}
	sendJSON(w, http.StatusOK, statusResponse{Status: "reloaded", Products: h.svc.CurrentSize()})
}

// HandleSearch handles GET /search?q=&k=.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		sendError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	k, ok := parseK(w, r)
	if !ok {
		return
	}

	items, err := h.svc.SearchByText(r.Context(), q, k)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, itemsResponse{Items: toProductResults(items)})
}

// HandleSimilar handles GET /similar?product_id=&k=.
func (h *Handler) HandleSimilar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("product_id"))
	if err != nil {
		sendError(w, http.StatusBadRequest, "product_id must be an integer")
		return
	}
	k, ok := parseK(w, r)
	if !ok {
		return
	}

	items, err := h.svc.SimilarToItem(r.Context(), id, k)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, itemsResponse{Items: toProductResults(items)})
}

// HandleTrack handles POST /track.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.UserID == nil || req.ProductID == nil {
		sendError(w, http.StatusBadRequest, "userId and productId are required")
		return
	}

	_, err := h.svc.RecordEvent(r.Context(), usecase.TrackInput{
		UserID:    *req.UserID,
		ProductID: *req.ProductID,
		Event:     req.Event,
		TS:        req.TS,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"status": "logged"})
}

// HandleRecommend handles POST /recommend.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	history := make([]string, len(req.History))
	for i, hi := range req.History {
		history[i] = string(hi)
	}

	out, err := h.svc.RecommendForUser(r.Context(), usecase.RecommendInput{
		UserID:  req.UserID,
		History: history,
		K:       req.K,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	items := make([]recommendItem, len(out.Items))
	for i, it := range out.Items {
		items[i] = recommendItem{ProductID: it.Item.ID, Score: it.Score}
	}
	sendJSON(w, http.StatusOK, recommendResponse{Items: items, Source: string(out.Source)})
}

func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidK), errors.Is(err, domain.ErrInvalidEvent):
		sendError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		sendError(w, http.StatusInternalServerError, err.Error())
	}
}

// parseK reads the optional k query parameter. Absent means 0, which the
// service replaces with the default.
func parseK(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("k")
	if raw == "" {
		return 0, true
	}
	k, err := strconv.Atoi(raw)
	if err != nil {
		sendError(w, http.StatusBadRequest, "k must be an integer")
		return 0, false
	}
	return k, true
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, status int, msg string) {
	sendJSON(w, status, errorResponse{Error: msg})
}
