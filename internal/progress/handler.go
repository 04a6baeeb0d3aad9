package progress

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/kotoba-nexus/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/study_sessions/{id}/words/{word_id}/review", h.RecordReview).Methods("POST")
	api.HandleFunc("/study_progress/{user_id}/summary", h.GetSummary).Methods("GET")
	api.HandleFunc("/study_progress/{user_id}/streak", h.GetStreak).Methods("GET")
}

// resolveUserID prefers the authenticated user from the request context
// and falls back to the user_id given in the body.
func resolveUserID(r *http.Request, bodyUserID string) string {
	if uid, ok := r.Context().Value("user_id").(int64); ok {
		return strconv.FormatInt(uid, 10)
	}
	return bodyUserID
}

func (h *Handler) RecordReview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	wordID := vars["word_id"]

	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID := resolveUserID(r, req.UserID)
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "user_id is required"})
		return
	}
	if sessionID == "" || wordID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "session id and word id are required"})
		return
	}
	if req.Correct == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "correct is required"})
		return
	}

	outcome, err := h.service.RecordReview(r.Context(), userID, sessionID, wordID, *req.Correct, req.Mistakes, req.AIFeedback)
	if err != nil {
		log.Printf("[progress] RecordReview error: %v", err)
		if errors.Is(err, ErrStoreUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Progress store unavailable"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record review"})
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "user_id is required"})
		return
	}

	// Store failures are reported inside the summary body, not as an
	// HTTP error. The error field is authoritative over the counts.
	writeJSON(w, http.StatusOK, h.service.GetSummary(r.Context(), userID))
}

func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "user_id is required"})
		return
	}

	streak, err := h.service.GetStreak(r.Context(), userID)
	if err != nil {
		log.Printf("[progress] GetStreak error: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Progress store unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, models.StreakResponse{UserID: userID, Streak: streak})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
