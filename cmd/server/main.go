package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kotoba-nexus/backend/internal/auth"
	"github.com/kotoba-nexus/backend/internal/content"
	"github.com/kotoba-nexus/backend/internal/database"
	"github.com/kotoba-nexus/backend/internal/embedding"
	"github.com/kotoba-nexus/backend/internal/kana"
	"github.com/kotoba-nexus/backend/internal/listening"
	"github.com/kotoba-nexus/backend/internal/middleware"
	"github.com/kotoba-nexus/backend/internal/progress"
	"github.com/kotoba-nexus/backend/internal/speech"
	"github.com/kotoba-nexus/backend/internal/storage"
	"github.com/kotoba-nexus/backend/internal/vision"
	"github.com/kotoba-nexus/backend/internal/vocabulary"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	// Gateways
	bucket, err := storage.NewBucket(ctx)
	if err != nil {
		log.Fatalf("Failed to create storage bucket: %v", err)
	}
	defer bucket.Close()

	synthesizer, err := speech.NewSynthesizer(ctx)
	if err != nil {
		log.Fatalf("Failed to create speech synthesizer: %v", err)
	}
	defer synthesizer.Close()

	contentClient := content.NewClient()
	visionClient := vision.NewClient()
	embedder := embedding.NewClient()
	questionGenerator := listening.NewQuestionGenerator()
	youtubeClient := listening.NewYouTubeClient()

	// Services
	vocabularyService := vocabulary.NewService(contentClient)
	kanaService := kana.NewService(contentClient, visionClient)
	vectorStore := listening.NewVectorStore(db, embedder)
	listeningService := listening.NewService(
		youtubeClient, vectorStore, questionGenerator, synthesizer, bucket, vocabularyService,
	)
	progressService := progress.NewService(
		progress.NewSQLStore(db, intEnv("PROGRESS_SCAN_LIMIT", 0)),
	)

	// Handlers
	authHandler := auth.NewHandler(db)
	vocabularyHandler := vocabulary.NewHandler(vocabularyService)
	kanaHandler := kana.NewHandler(kanaService, bucket)
	listeningHandler := listening.NewHandler(listeningService)
	progressHandler := progress.NewHandler(progressService)

	// Router
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"app":"Kotoba Nexus","status":"online"}`))
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	vocabularyHandler.RegisterRoutes(api)
	listeningHandler.RegisterRoutes(api)
	kanaHandler.RegisterRoutes(r)

	// Study routes accept either an authenticated user or an explicit
	// user_id, so auth is optional here.
	study := api.PathPrefix("").Subrouter()
	study.Use(middleware.OptionalAuthMiddleware)
	progressHandler.RegisterRoutes(study)

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: c.Handler(r),
	}

	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
