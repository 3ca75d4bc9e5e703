package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewlens/internal/cache"
	"interviewlens/internal/config"
	"interviewlens/internal/extractor"
	"interviewlens/internal/repository"
	"interviewlens/internal/scoring"
	"interviewlens/internal/service"
	"interviewlens/internal/transport/rest"
	"interviewlens/internal/transport/ws"
)

func main() {
	root := &cobra.Command{
		Use:   "interviewlens",
		Short: "Interview evaluation pipeline",
	}
	root.AddCommand(serveCmd(), scanCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the polling scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run one scan over the worklist and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan()
		},
	}
}

// app is the wired application.
type app struct {
	cfg         *config.Config
	mongoClient *mongo.Client
	rdb         *redis.Client
	scheduler   *service.Scheduler
	candidates  repository.CandidateRepo
	results     repository.ResultRepo
	resultCache cache.ResultCache
	wsHub       *ws.Hub
}

func (a *app) close(ctx context.Context) {
	a.rdb.Close()
	a.mongoClient.Disconnect(ctx)
}

// build connects the backing stores and wires the pipeline.
func build(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	rubric, err := config.LoadRubric(cfg.RubricPath)
	if err != nil {
		return nil, err
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, err
	}
	log.Println("Connected to MongoDB")
	db := mongoClient.Database(cfg.MongoDB)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, err
	}
	log.Println("Connected to Redis")

	candidateRepo := repository.NewCandidateRepo(db, cfg.PipelineTimeout)
	resultRepo := repository.NewResultRepo(db)
	resultCache := cache.NewResultCache(rdb)
	claimGuard := cache.NewClaimGuard(rdb, cfg.PipelineTimeout)

	var collab scoring.Collaborator
	if cfg.ScoringEnabled() {
		collab = scoring.NewOpenAIScorer(cfg.OpenAIKey, cfg.OpenAIModel)
		log.Printf("Scoring model: %s", cfg.OpenAIModel)
	} else {
		collab = scoring.NewMockScorer()
		log.Println("Warning: no API key set, using the offline scorer")
	}

	analyzer := service.NewAnalyzer(cfg, service.AnalyzerDeps{
		Face:   extractor.NewFaceClient(cfg.FaceServiceURL),
		Voice:  extractor.NewVoiceClient(cfg.VoiceServiceURL),
		Speech: extractor.NewSpeechClient(cfg.SpeechServiceURL),
		Docs:   extractor.NewDocumentClient(),
		Collab: collab,
		Rubric: rubric,
	})

	writer := service.NewResultWriter(candidateRepo, resultRepo, resultCache)
	wsHub := ws.NewHub()
	scheduler := service.NewScheduler(service.SchedulerConfig{
		ScanInterval:    cfg.ScanInterval,
		PipelineTimeout: cfg.PipelineTimeout,
		MaxConcurrent:   cfg.MaxConcurrent,
		MaxRetries:      cfg.MaxRecordRetries,
	}, candidateRepo, claimGuard, analyzer, writer, wsHub)

	return &app{
		cfg:         cfg,
		mongoClient: mongoClient,
		rdb:         rdb,
		scheduler:   scheduler,
		candidates:  candidateRepo,
		results:     resultRepo,
		resultCache: resultCache,
		wsHub:       wsHub,
	}, nil
}

func runServe() error {
	ctx := context.Background()
	a, err := build(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	a.scheduler.Start()
	defer a.scheduler.Stop()

	router := rest.NewRouter(&rest.Container{
		Scheduler:   a.scheduler,
		Candidates:  a.candidates,
		Results:     a.results,
		ResultCache: a.resultCache,
		WSHub:       a.wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + a.cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", a.cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("Server exited")
	return nil
}

// runScan drains the worklist once and exits. Meant for cron-style operation
// without the resident server; the polling loop is never started.
func runScan() error {
	ctx := context.Background()
	a, err := build(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if err := a.scheduler.Drain(ctx); err != nil {
		return err
	}

	stats := a.scheduler.Stats()
	log.Printf("Scan finished: %d processed, %d failed", stats.Processed, stats.Failed)
	return nil
}
