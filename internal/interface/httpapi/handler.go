// internal/interface/httpapi/handler.go
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/internal/usecase"
	"farewatch-service/pkg/logger"

	"gorm.io/gorm"
)

// Handler exposes the search engine and the watch CRUD surface over JSON.
// It is the HTTP stand-in for the dialog front end: it performs the same
// input validation the dialog flow guarantees before anything reaches the
// core.
type Handler struct {
	engine    *usecase.SearchEngine
	subs      repository.SubscriptionRepository
	snapshots repository.PriceSnapshotRepository
	carriers  *entity.CarrierDirectory
	logger    logger.Logger
	flexDays  int
	limit     int
}

// NewHandler creates a new HTTP API handler
func NewHandler(
	engine *usecase.SearchEngine,
	subs repository.SubscriptionRepository,
	snapshots repository.PriceSnapshotRepository,
	carriers *entity.CarrierDirectory,
	log logger.Logger,
	flexDays, limit int,
) *Handler {
	return &Handler{
		engine:    engine,
		subs:      subs,
		snapshots: snapshots,
		carriers:  carriers,
		logger:    log,
		flexDays:  flexDays,
		limit:     limit,
	}
}

// Register mounts all API routes on the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/search", h.handleSearch)
	mux.HandleFunc("POST /api/v1/watches", h.handleCreateWatch)
	mux.HandleFunc("GET /api/v1/watches", h.handleListWatches)
	mux.HandleFunc("GET /api/v1/watches/{id}/history", h.handleWatchHistory)
	mux.HandleFunc("PATCH /api/v1/watches/{id}/threshold", h.handleUpdateThreshold)
	mux.HandleFunc("DELETE /api/v1/watches/{id}", h.handleDeleteWatch)
}

type searchRequest struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DepartDate  string  `json:"depart_date"`
	ReturnDate  *string `json:"return_date,omitempty"`
	Passengers  int     `json:"passengers"`
}

type searchResponse struct {
	Offers     []entity.FareOffer      `json:"offers,omitempty"`
	RoundTrips []entity.RoundTripOffer `json:"round_trips,omitempty"`
	WatchToken string                  `json:"watch_token"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query, err := req.toQuery()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := searchResponse{WatchToken: entity.EncodeWatchToken(query)}
	if query.RoundTrip() {
		resp.RoundTrips = h.engine.SearchRoundTripFixedStay(r.Context(),
			query.Origin, query.Destination, query.DepartDate, *query.ReturnDate,
			h.flexDays, query.Passengers, h.limit)
	} else {
		offers := h.engine.SearchDatesWindow(r.Context(),
			query.Origin, query.Destination,
			usecase.WindowAround(query.DepartDate, h.flexDays), h.limit)
		if h.limit > 0 && len(offers) > h.limit {
			offers = offers[:h.limit]
		}
		resp.Offers = offers
	}

	// Empty results are a normal outcome, not an error
	writeJSON(w, http.StatusOK, resp)
}

func (req searchRequest) toQuery() (entity.TripQuery, error) {
	depart, ok := entity.ParseStoredDate(req.DepartDate)
	if !ok {
		return entity.TripQuery{}, errors.New("depart_date must be a YYYY-MM-DD date")
	}
	query := entity.TripQuery{
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartDate:  depart,
		Passengers:  req.Passengers,
	}
	if req.ReturnDate != nil {
		ret, ok := entity.ParseStoredDate(*req.ReturnDate)
		if !ok {
			return entity.TripQuery{}, errors.New("return_date must be a YYYY-MM-DD date")
		}
		query.ReturnDate = &ret
	}
	if err := query.Validate(); err != nil {
		return entity.TripQuery{}, err
	}
	return query, nil
}

type createWatchRequest struct {
	UserID     int64  `json:"user_id"`
	WatchToken string `json:"watch_token,omitempty"`
	searchRequest
	Threshold *int64 `json:"threshold,omitempty"`
}

type watchResponse struct {
	ID                uint    `json:"id"`
	Origin            string  `json:"origin"`
	Destination       string  `json:"destination"`
	DepartDate        string  `json:"depart_date"`
	ReturnDate        *string `json:"return_date,omitempty"`
	Passengers        int     `json:"passengers"`
	Threshold         *int64  `json:"threshold,omitempty"`
	ThresholdIsManual bool    `json:"threshold_is_manual"`
	LastNotifiedPrice *int64  `json:"last_notified_price,omitempty"`
}

func (h *Handler) handleCreateWatch(w http.ResponseWriter, r *http.Request) {
	var req createWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var (
		query entity.TripQuery
		err   error
	)
	if req.WatchToken != "" {
		query, err = entity.ParseWatchToken(req.WatchToken)
	} else {
		query, err = req.searchRequest.toQuery()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sub := &entity.Subscription{
		UserID:      req.UserID,
		Origin:      query.Origin,
		Destination: query.Destination,
		DepartDate:  query.DepartDate.Format(entity.DateLayout),
		Passengers:  query.Passengers,
		// A user-supplied threshold is fixed; otherwise the watch is dynamic
		// and the watcher primes it from the first scan.
		Threshold:         req.Threshold,
		ThresholdIsManual: req.Threshold != nil,
	}
	if query.ReturnDate != nil {
		ret := query.ReturnDate.Format(entity.DateLayout)
		sub.ReturnDate = &ret
	}

	id, err := h.subs.Create(r.Context(), sub)
	if err != nil {
		h.logger.Error("Failed to create watch", "userId", req.UserID, "error", err)
		writeError(w, http.StatusServiceUnavailable, "could not save watch, please retry")
		return
	}
	sub.ID = id

	writeJSON(w, http.StatusCreated, toWatchResponse(sub))
}

func (h *Handler) handleListWatches(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID == 0 {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	subs, err := h.subs.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list watches", "userId", userID, "error", err)
		writeError(w, http.StatusServiceUnavailable, "could not load watches, please retry")
		return
	}

	watches := make([]watchResponse, 0, len(subs))
	for i := range subs {
		watches = append(watches, toWatchResponse(&subs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"watches": watches})
}

func (h *Handler) handleWatchHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	snapshots, err := h.snapshots.ListBySubscription(r.Context(), id, 50)
	if err != nil {
		h.logger.Error("Failed to load watch history", "watchId", id, "error", err)
		writeError(w, http.StatusServiceUnavailable, "could not load history, please retry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": snapshots})
}

type updateThresholdRequest struct {
	Threshold int64 `json:"threshold"`
	IsManual  bool  `json:"is_manual"`
}

func (h *Handler) handleUpdateThreshold(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateThresholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Threshold <= 0 {
		writeError(w, http.StatusBadRequest, "threshold must be positive")
		return
	}

	if _, err := h.subs.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "watch not found")
			return
		}
		h.logger.Error("Failed to load watch", "watchId", id, "error", err)
		writeError(w, http.StatusServiceUnavailable, "could not update watch, please retry")
		return
	}

	if err := h.subs.UpdateThreshold(r.Context(), id, req.Threshold, req.IsManual); err != nil {
		h.logger.Error("Failed to update threshold", "watchId", id, "error", err)
		writeError(w, http.StatusServiceUnavailable, "could not update watch, please retry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteWatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.subs.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete watch", "watchId", id, "error", err)
		writeError(w, http.StatusServiceUnavailable, "could not delete watch, please retry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toWatchResponse(sub *entity.Subscription) watchResponse {
	return watchResponse{
		ID:                sub.ID,
		Origin:            sub.Origin,
		Destination:       sub.Destination,
		DepartDate:        sub.DepartDate,
		ReturnDate:        sub.ReturnDate,
		Passengers:        sub.PassengerCount(),
		Threshold:         sub.Threshold,
		ThresholdIsManual: sub.ThresholdIsManual,
		LastNotifiedPrice: sub.LastNotifiedPrice,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid watch id")
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
