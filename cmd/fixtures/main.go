package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/trunkcat/fixtures/apiclient"
	"github.com/trunkcat/fixtures/config"
	"github.com/trunkcat/fixtures/services"
)

func main() {
	// .env необязателен.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "fixtures",
		Usage: "tournament admin console",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "base URL of the tournament API",
				EnvVars: []string{"API_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "bearer token for the tournament API",
				EnvVars: []string{"API_TOKEN"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   15 * time.Second,
				EnvVars: []string{"API_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print results as JSON",
			},
		},
		Commands: []*cli.Command{
			newScheduleCommand(),
			newStandingsCommand(),
			newMatchCommand(),
			newTournamentCommand(),
			newTeamsCommand(),
			newShellCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every command needs to talk to the backend.
type env struct {
	client   *apiclient.Client
	logger   *slog.Logger
	notifier services.Notifier
}

func newEnv(c *cli.Context) (*env, error) {
	level := config.LogConfig{Level: c.String("log-level")}.SlogLevel()
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	if c.String("api-url") == "" {
		return nil, cli.Exit("API base URL is not set (use --api-url or API_BASE_URL)", 2)
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL: c.String("api-url"),
		Token:   c.String("token"),
		Timeout: c.Duration("timeout"),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return &env{
		client:   client,
		logger:   logger,
		notifier: &printNotifier{w: c.App.ErrWriter},
	}, nil
}
