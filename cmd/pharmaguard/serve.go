package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/pharmaguard/internal/assess"
	"github.com/inodb/pharmaguard/internal/duckdb"
	"github.com/inodb/pharmaguard/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr      string
		historyDB string
		noHistory bool
		maxUpload int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assessment API over HTTP",
		Long: `Serve the assessment API over HTTP.

Endpoints:
  POST /process_vcf/?drug=<name>   multipart upload in field "file"
  GET  /drugs                      supported drugs
  GET  /analyses/recent?limit=<n>  recorded assessments
  GET  /healthz                    liveness

A .env file in the working directory is loaded before configuration.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// .env values become visible to viper's AutomaticEnv.
			_ = godotenv.Load()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = viper.GetString("server.addr")
			}
			if !cmd.Flags().Changed("history-db") {
				historyDB = viper.GetString("history.db")
			}
			return runServe(addr, historyDB, !noHistory, maxUpload)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&historyDB, "history-db", "", "History database path (default from config)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record assessments")
	cmd.Flags().Int64Var(&maxUpload, "max-upload", server.DefaultMaxUploadBytes, "Maximum upload size in bytes")

	return cmd
}

func runServe(addr, historyDB string, withHistory bool, maxUpload int64) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := assess.NewEngine()
	engine.SetLogger(logger)

	var history server.History
	if withHistory {
		store, err := duckdb.Open(historyDB)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		history = store
		logger.Info("recording assessments", zap.String("db", historyDB))
	}

	srv := server.New(engine, history)
	srv.SetLogger(logger)
	srv.SetMaxUploadBytes(maxUpload)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}
