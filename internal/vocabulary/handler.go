package vocabulary

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kotoba-nexus/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the vocabulary endpoints to the given router.
// Fixed paths are registered before the {word_id} catch-all so "verbs"
// is never treated as a word id.
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/vocabulary/verbs", h.GetVerbs).Methods("GET")
	api.HandleFunc("/vocabulary/adjectives", h.GetAdjectives).Methods("GET")
	api.HandleFunc("/vocabulary/all", h.GetAllWords).Methods("GET")
	api.HandleFunc("/vocabulary/search", h.SearchWords).Methods("GET")
	api.HandleFunc("/vocabulary/{word_id}", h.GetWordByID).Methods("GET")
}

func (h *Handler) GetVerbs(w http.ResponseWriter, r *http.Request) {
	verbs, err := h.service.GetVerbs(r.Context())
	if err != nil {
		log.Printf("[vocabulary] get verbs: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load verbs"})
		return
	}
	writeJSON(w, http.StatusOK, verbs)
}

func (h *Handler) GetAdjectives(w http.ResponseWriter, r *http.Request) {
	adjectives, err := h.service.GetAdjectives(r.Context())
	if err != nil {
		log.Printf("[vocabulary] get adjectives: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load adjectives"})
		return
	}
	writeJSON(w, http.StatusOK, adjectives)
}

func (h *Handler) GetAllWords(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetAllWords(r.Context())
	if err != nil {
		log.Printf("[vocabulary] get all words: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load vocabulary"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) SearchWords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "query parameter is required"})
		return
	}

	results, err := h.service.SearchWords(r.Context(), query)
	if err != nil {
		log.Printf("[vocabulary] search %q: %v", query, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Search failed"})
		return
	}
	writeJSON(w, http.StatusOK, models.WordSearchResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	})
}

func (h *Handler) GetWordByID(w http.ResponseWriter, r *http.Request) {
	wordID := mux.Vars(r)["word_id"]

	word, err := h.service.GetWordByID(r.Context(), wordID)
	if err != nil {
		log.Printf("[vocabulary] get word %s: %v", wordID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load word"})
		return
	}
	if word == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Word not found"})
		return
	}
	writeJSON(w, http.StatusOK, word)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
