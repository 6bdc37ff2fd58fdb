// Command speakmate records a spoken sentence, sends it to a speakmate
// server and prints the transcript, feedback and a speaking score.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/speakmate/bootstrap"
	"github.com/kbukum/speakmate/capture"
	"github.com/kbukum/speakmate/config"
	"github.com/kbukum/speakmate/practice"
	"github.com/kbukum/speakmate/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", clientName, err)
			os.Exit(1)
		}
	}
}

// newFlagSets returns the parsed command line and the subset of it that
// maps onto config keys.
func newFlagSets() (cmdline, settings *pflag.FlagSet) {
	settings = pflag.NewFlagSet("settings", pflag.ContinueOnError)
	settings.IntP("duration", "d", practice.DefaultDuration,
		fmt.Sprintf("recording length in seconds (%d-%d)", practice.MinDuration, practice.MaxDuration))
	settings.StringP("server", "s", practice.DefaultServerURL, "speakmate server URL")
	settings.StringP("text", "t", "", "text you are going to read aloud")
	settings.StringP("category", "c", "", "show example sentences for a category")
	settings.BoolP("list", "l", false, "list all example categories")
	settings.String("recorder", "", "capture program: arecord or rec")

	cmdline = pflag.NewFlagSet(clientName, pflag.ContinueOnError)
	cmdline.String("config", "", "path to a config file")
	cmdline.Bool("version", false, "print version and exit")
	cmdline.AddFlagSet(settings)
	return cmdline, settings
}

func run(args []string) error {
	flags, settings := newFlagSets()
	if err := flags.Parse(args); err != nil {
		return err
	}
	if v, _ := flags.GetBool("version"); v {
		fmt.Println(version.Short())
		return nil
	}
	configFile, _ := flags.GetString("config")

	var cfg Config
	if err := config.LoadConfig(clientName, &cfg,
		config.WithConfigFile(configFile),
		config.WithFlags(settings),
	); err != nil {
		return err
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	renderer := practice.NewTerminalRenderer(os.Stdout)
	if cfg.List {
		renderer.Topics(practice.Examples()...)
		return nil
	}
	if cfg.Category != "" {
		topic, _ := practice.Category(cfg.Category)
		renderer.Topics(topic)
		return nil
	}

	uploader, err := practice.NewUploader(cfg.Server, cfg.Timeout)
	if err != nil {
		return err
	}
	rec := capture.NewRecorder(cfg.device(), capture.WithProgress(renderer.Progress))
	rec.Subscribe(renderer.State)
	session := practice.NewSession(rec, uploader, renderer,
		practice.WithCacheDir(cfg.CacheDir),
		practice.WithSampleRate(cfg.SampleRate),
		practice.WithLogger(app.Logger.WithComponent("session")),
	)

	return app.RunTask(context.Background(), func(ctx context.Context) error {
		if cfg.Text != "" {
			renderer.Prompt(cfg.Text)
		}
		if err := uploader.Ping(ctx); err != nil {
			renderer.Error(practice.ServerErrorMessage)
			return err
		}
		_, err := session.Run(ctx, cfg.Duration)
		return err
	})
}
