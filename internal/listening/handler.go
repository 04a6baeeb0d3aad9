package listening

import (
	"encoding/json"
	"errors"
	"fmt"
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

func (h *Handler) RegisterRoutes(api *mux.Router) {
	listening := api.PathPrefix("/listening").Subrouter()
	listening.HandleFunc("/youtube/transcribe", h.Transcribe).Methods("POST")
	listening.HandleFunc("/store-transcriptions", h.StoreTranscriptions).Methods("POST")
	listening.HandleFunc("/generate-question", h.GenerateQuestion).Methods("POST")
	listening.HandleFunc("/generate-audio", h.GenerateAudio).Methods("POST")
	listening.HandleFunc("/vocabulary-to-question", h.VocabularyToQuestion).Methods("POST")
}

func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req models.TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.YouTubeURL == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "youtube_url is required"})
		return
	}

	transcription, err := h.service.Transcribe(r.Context(), req.YouTubeURL, req.Lang)
	if err != nil {
		if errors.Is(err, ErrNoCaptions) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No subtitles found for requested language"})
			return
		}
		log.Printf("[listening] transcribe %s: %v", req.YouTubeURL, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch transcription"})
		return
	}

	writeJSON(w, http.StatusOK, models.TranscribeResponse{
		Success:       true,
		Transcription: *transcription,
	})
}

func (h *Handler) StoreTranscriptions(w http.ResponseWriter, r *http.Request) {
	var req models.StoreTranscriptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if len(req.Transcriptions) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "transcriptions is required"})
		return
	}

	if err := h.service.StoreTranscriptions(r.Context(), req.Transcriptions); err != nil {
		log.Printf("[listening] store transcriptions: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to store transcriptions"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Stored %d transcriptions", len(req.Transcriptions)),
	})
}

func (h *Handler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "topic is required"})
		return
	}

	question, err := h.service.GenerateQuestion(r.Context(), req.Topic, req.Difficulty)
	if err != nil {
		log.Printf("[listening] generate question %q: %v", req.Topic, err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Question generation failed"})
		return
	}

	writeJSON(w, http.StatusOK, models.GenerateQuestionResponse{
		Success:       true,
		Question:      question.Question,
		Options:       question.Options,
		CorrectAnswer: question.CorrectAnswer,
		Context:       question.Context,
	})
}

func (h *Handler) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "text is required"})
		return
	}

	audioURL, err := h.service.GenerateAudio(r.Context(), req.Text, req.Voice)
	if err != nil {
		log.Printf("[listening] generate audio: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Audio generation failed"})
		return
	}

	writeJSON(w, http.StatusOK, models.GenerateAudioResponse{
		Success:  true,
		AudioURL: audioURL,
	})
}

func (h *Handler) VocabularyToQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.VocabularyQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.WordID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "word_id is required"})
		return
	}

	resp, err := h.service.VocabularyToQuestion(r.Context(), req.WordID)
	if err != nil {
		log.Printf("[listening] vocabulary question %s: %v", req.WordID, err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Question generation failed"})
		return
	}
	if resp == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Word not found"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
