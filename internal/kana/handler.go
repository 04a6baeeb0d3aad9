package kana

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kotoba-nexus/backend/internal/models"
	"github.com/kotoba-nexus/backend/internal/storage"
	"github.com/kotoba-nexus/backend/internal/vision"
)

const uploadURLExpiry = 15 * time.Minute

type Handler struct {
	service *Service
	bucket  *storage.Bucket
}

func NewHandler(service *Service, bucket *storage.Bucket) *Handler {
	return &Handler{service: service, bucket: bucket}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	practice := router.PathPrefix("/kana-practice").Subrouter()
	practice.HandleFunc("/evaluate", h.Evaluate).Methods("POST")
	practice.HandleFunc("/data", h.GetData).Methods("GET")
	practice.HandleFunc("/search", h.Search).Methods("GET")
	practice.HandleFunc("/upload-url", h.GetUploadURL).Methods("GET")
}

// Evaluate accepts a multipart form with the handwritten image under
// "file" plus optional "eval_type" and "expected_kana" fields.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(vision.MaxImageBytes + 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid multipart form"})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "file field is required"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, vision.MaxImageBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}

	evalType := r.FormValue("eval_type")
	if evalType == "" {
		evalType = "character"
	}
	expectedKana := r.FormValue("expected_kana")

	result := h.service.EvaluateImage(r.Context(), imageData, evalType, expectedKana)
	if !result.Success {
		log.Printf("[kana] evaluation failed: %s", result.Error)
		writeJSON(w, http.StatusBadRequest, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.GetKana(r.Context())
	if err != nil {
		log.Printf("[kana] get data: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load kana data"})
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "query parameter is required"})
		return
	}

	results, err := h.service.SearchKana(r.Context(), query)
	if err != nil {
		log.Printf("[kana] search %q: %v", query, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Search failed"})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// GetUploadURL hands out a signed PUT URL so the client can upload its
// drawing directly to the bucket.
func (h *Handler) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "filename parameter is required"})
		return
	}

	fileKey := uploadFileKey(time.Now(), filename)
	uploadURL, err := h.bucket.SignedUploadURL(fileKey, "", uploadURLExpiry)
	if err != nil {
		log.Printf("[kana] sign upload URL: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate upload URL"})
		return
	}

	writeJSON(w, http.StatusOK, models.UploadURLResponse{
		UploadURL: uploadURL,
		FileKey:   fileKey,
	})
}

func uploadFileKey(now time.Time, filename string) string {
	return fmt.Sprintf("user-uploads/%s_%s", now.Format("20060102150405"), filename)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
