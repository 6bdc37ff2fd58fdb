// Command speakmate-server serves the speech-practice API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/speakmate/bootstrap"
	"github.com/kbukum/speakmate/coach"
	"github.com/kbukum/speakmate/config"
	"github.com/kbukum/speakmate/llm"
	"github.com/kbukum/speakmate/llm/ollama"
	llmopenai "github.com/kbukum/speakmate/llm/openai"
	"github.com/kbukum/speakmate/logger"
	"github.com/kbukum/speakmate/observability"
	"github.com/kbukum/speakmate/server"
	"github.com/kbukum/speakmate/storage/local"
	"github.com/kbukum/speakmate/transcription"
	sttopenai "github.com/kbukum/speakmate/transcription/openai"
	"github.com/kbukum/speakmate/transcription/whisper"
	"github.com/kbukum/speakmate/util"
	"github.com/kbukum/speakmate/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	settings := pflag.NewFlagSet("settings", pflag.ContinueOnError)
	settings.String("server.host", "0.0.0.0", "listen host")
	settings.Int("server.port", 8000, "listen port")

	flags := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a config file")
	envFile := flags.String("env-file", "", "path to a .env file")
	showVersion := flags.Bool("version", false, "print version and exit")
	flags.AddFlagSet(settings)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println(version.Short())
		return nil
	}

	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg,
		config.WithConfigFile(*configFile),
		config.WithEnvFile(*envFile),
		config.WithFlags(settings),
	); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Short()
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	log := app.Logger

	telemetry := observability.NewComponent(observability.Identity{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
	}, cfg.Observability, log)
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}

	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	scratch, err := local.NewScratch(cfg.Coach.Scratch)
	if err != nil {
		return err
	}

	stt, err := newTranscriber(&cfg)
	if err != nil {
		return err
	}
	chat, err := newChat(&cfg)
	if err != nil {
		return err
	}

	svc := coach.NewService(cfg.Coach, stt, chat, scratch, log, coach.WithMetrics(metrics))
	srv := server.New(cfg.Server, log, server.WithMetrics(metrics))
	coach.NewHandler(svc, cfg.Coach.MaxUploadBytes(), log).RegisterRoutes(srv.GinEngine())
	srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll)

	if err := app.RegisterComponent(coach.NewComponent(svc, scratch, log)); err != nil {
		return err
	}
	// The listener goes last so it stops first.
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return err
	}

	log.Info("Providers configured", logger.Fields(
		"transcription", stt.Name(),
		"llm", chat.Name(),
		"openai_key", util.MaskSecret(cfg.OpenAI.APIKey, 4),
	))
	return app.Run(context.Background())
}

func newTranscriber(cfg *Config) (transcription.Provider, error) {
	switch cfg.Transcription.Backend {
	case BackendWhisper:
		return whisper.NewProvider(cfg.Transcription.Whisper)
	default:
		return sttopenai.NewProvider(sttopenai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.TranscriptionModel,
			Timeout: cfg.OpenAI.Timeout,
		}), nil
	}
}

func newChat(cfg *Config) (llm.Provider, error) {
	switch cfg.LLM.Backend {
	case BackendOllama:
		return ollama.NewProvider(cfg.LLM.Ollama)
	default:
		return llmopenai.NewProvider(llmopenai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.ChatModel,
			Timeout: cfg.OpenAI.Timeout,
		}), nil
	}
}
