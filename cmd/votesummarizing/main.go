package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/vncsmyrnk/pollhub/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollhub/internal/config"
	"github.com/vncsmyrnk/pollhub/internal/core/services"
)

func main() {
	config.LoadEnv()

	var (
		db      config.Postgres
		timeout time.Duration
	)
	fs := pflag.NewFlagSet("votesummarizing", pflag.ExitOnError)
	config.DatabaseFlags(fs, &db)
	fs.DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum duration of the job")
	fs.Parse(os.Args[1:])

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, err := postgres.Open(ctx, db.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	summaryService := services.NewSummaryService(postgres.NewPollRepository(conn), postgres.NewPollResultRepository(conn))

	slog.Info("starting vote summarization job")
	start := time.Now()

	if err := summaryService.SummarizeAllVotes(ctx); err != nil {
		log.Fatalf("Error summarizing votes: %v", err)
	}

	slog.Info("vote summarization completed", "elapsed", time.Since(start))
}
