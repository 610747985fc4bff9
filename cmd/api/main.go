package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tedhz/LeTeam/internal/api"
	"github.com/tedhz/LeTeam/internal/auth"
	"github.com/tedhz/LeTeam/internal/config"
	"github.com/tedhz/LeTeam/internal/docstore"
	"github.com/tedhz/LeTeam/internal/events"
	"github.com/tedhz/LeTeam/internal/photos"
	"github.com/tedhz/LeTeam/internal/posts"
	"github.com/tedhz/LeTeam/internal/users"
	"github.com/tedhz/LeTeam/internal/workouts"

	httptransport "github.com/tedhz/LeTeam/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fsClient, err := firestore.NewClient(ctx, cfg.GoogleProjectID)
	if err != nil {
		log.Fatalf("failed to connect to firestore: %v", err)
	}
	defer fsClient.Close()

	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatalf("failed to connect to cloud storage: %v", err)
	}
	defer gcsClient.Close()

	db := docstore.NewFirestore(fsClient)

	var publisher *events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()
		publisher = events.NewPublisher(producer, log.Default())
	}

	profileStore := users.NewProfileStore(db)
	followStore := users.NewFollowStore(db, users.WithFollowEvents(publisher))
	postStore := posts.NewStore(db, posts.WithEvents(publisher))
	workoutStore := workouts.NewStore(db, workouts.WithEvents(publisher))
	uploader := photos.NewUploader(photos.NewGCSBlobStore(gcsClient, cfg.StorageBucket))

	handler := api.NewHandler(profileStore, followStore, postStore, workoutStore, uploader)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	})

	server := httptransport.NewServer(httptransport.DefaultConfig(cfg.HTTPAddress), authMiddleware.Wrap(logger(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("social api listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
