// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/finsight"
	"github.com/poiesic/finsight/ai"
	"github.com/poiesic/finsight/core"
	"github.com/poiesic/finsight/server"
	"github.com/urfave/cli/v2"
)

func main() {
	// Optional .env; flags and real env vars win
	godotenv.Load()

	app := &cli.App{
		Name:  "finsight",
		Usage: "Tenant-scoped retrieval pipeline for financial dialogue",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the sync and chat API over HTTP",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "listen",
						Usage:   "Address to listen on",
						Value:   ":8000",
						EnvVars: []string{"FINSIGHT_LISTEN"},
					},
				}, pipelineFlags()...),
			},
			{
				Name:      "sync",
				Usage:     "Sync a tenant's records from a JSON file",
				ArgsUsage: "<records.json>",
				Action:    syncCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant identifier",
						Required: true,
					},
				}, pipelineFlags()...),
			},
			{
				Name:      "ask",
				Usage:     "Ask a one-shot question for a tenant",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Usage:    "Tenant identifier",
						Required: true,
					},
				}, pipelineFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// pipelineFlags are shared by every command that builds an assistant.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory (empty for in-memory)",
			EnvVars: []string{"FINSIGHT_DB"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"FINSIGHT_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"FINSIGHT_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-host",
			Usage:   "Chat service host URL (defaults to embedding-host)",
			EnvVars: []string{"FINSIGHT_CHAT_HOST"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model name",
			Value:   "gemma2:2b",
			EnvVars: []string{"FINSIGHT_CHAT_MODEL"},
		},
		&cli.IntFlag{
			Name:  "top-k",
			Usage: "Number of entries retrieved per chat turn",
			Value: 10,
		},
	}
}

func newAssistant(c *cli.Context) (*finsight.Assistant, error) {
	chatHost := c.String("chat-host")
	if chatHost == "" {
		chatHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(chatHost),
		ai.WithChatModel(c.String("chat-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []finsight.AssistantOption{
		finsight.WithAIConfig(aiConfig),
		finsight.WithTopK(c.Int("top-k")),
	}
	if dbPath := c.String("db"); dbPath != "" {
		opts = append(opts, finsight.WithDatabasePath(dbPath))
	}

	return finsight.NewAssistant(opts...)
}

func serveCommand(c *cli.Context) error {
	assistant, err := newAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	srv, err := server.NewServer(assistant, server.WithChatModel(c.String("chat-model")))
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    c.String("listen"),
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

// recordsFile is the JSON shape the sync command reads.
type recordsFile struct {
	Transactions  []core.Transaction  `json:"transactions"`
	Budgets       []core.Budget       `json:"budgets"`
	BalanceSheets []core.BalanceSheet `json:"balance_sheets"`
}

func syncCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one records file argument")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read records file: %w", err)
	}

	var records recordsFile
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse records file: %w", err)
	}

	assistant, err := newAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	stored, err := assistant.Sync(context.Background(), c.String("tenant"),
		records.Transactions, records.Budgets, records.BalanceSheets)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Printf("Stored %d entries for tenant %s\n", stored, c.String("tenant"))
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("expected a question argument")
	}
	question := strings.Join(c.Args().Slice(), " ")

	assistant, err := newAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	reply, err := assistant.Chat(context.Background(), c.String("tenant"), question)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	fmt.Println(reply)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
