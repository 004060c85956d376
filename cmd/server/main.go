package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "vote-board/docs"
	"vote-board/internal/config"
	"vote-board/internal/domain/comment"
	"vote-board/internal/domain/poll"
	"vote-board/internal/domain/vote"
	api "vote-board/internal/http"
	"vote-board/internal/metrics"
	"vote-board/internal/platform/database"
	"vote-board/internal/platform/logger"
	"vote-board/internal/repository/postgres"
	"vote-board/internal/worker"
)

// @title           Vote Board API
// @version         1.0
// @description     Polls with vote-change, threaded comments and attribute analytics
// @BasePath        /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Environment)
	defer log.Sync()

	metrics.Register()
	api.SetLogger(log)

	db, err := database.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("db schema error: %v", err)
	}

	pollRepo := postgres.NewPollRepo(db)
	commentRepo := postgres.NewCommentRepo(db)

	pollSvc := poll.NewService(pollRepo, commentRepo)
	voteSvc := vote.NewService(pollRepo)
	commentSvc := comment.NewService(commentRepo)

	voteCh := make(chan worker.VoteEvent, 100)
	statsWorker := worker.NewStatsWorker(voteCh, log)

	router := api.NewRouter(pollSvc, voteSvc, commentSvc, voteCh, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go statsWorker.Run(ctx)

	go func() {
		log.Infof("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}

	log.Info("server stopped")
}
