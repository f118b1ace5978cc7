package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSyncCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "finsight",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Action: syncCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Aliases:  []string{"t"},
						Required: true,
					},
				}, pipelineFlags()...),
			},
		},
	}

	t.Run("tenant is required", func(t *testing.T) {
		err := app.Run([]string{"finsight", "sync", "records.json"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tenant")
	})

	t.Run("missing records file fails", func(t *testing.T) {
		err := app.Run([]string{"finsight", "sync", "--tenant", "user-1", "/no/such/file.json"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "records file")
	})

	t.Run("missing argument fails", func(t *testing.T) {
		err := app.Run([]string{"finsight", "sync", "--tenant", "user-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "records file argument")
	})
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	app := &cli.App{
		Name: "finsight",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
			},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error { return nil },
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			assert.NoError(t, app.Run([]string{"finsight", "--log-level", level}), level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := app.Run([]string{"finsight", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
