// selfplay plays many matches of a preset computer vs computer and prints a
// summary of the results.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/0mar-rivero/domino/automatic"
	"github.com/0mar-rivero/domino/config"
	"github.com/0mar-rivero/domino/rules"
	"github.com/0mar-rivero/domino/store"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("selfplay-failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if p := cfg.GetString(config.ConfigCPUProfile); p != "" {
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	r, err := rules.Load(cfg.GetString(config.ConfigPreset), cfg.GetString(config.ConfigRulesFile),
		cfg.GetInt(config.ConfigHandSize))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := automatic.Options{
		Rules:      r,
		Strategies: cfg.GetStringSlice(config.ConfigPlayers),
		Teams:      cfg.GetInt(config.ConfigTeams),
		Games:      cfg.GetInt(config.ConfigGames),
		Threads:    cfg.GetInt(config.ConfigThreads),
		Seed:       cfg.GetString(config.ConfigSeed),
	}
	if out := cfg.GetString(config.ConfigOutput); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		opts.TurnLog = f
	}
	if db := cfg.GetString(config.ConfigDB); db != "" {
		s, err := store.Open(ctx, db)
		if err != nil {
			return err
		}
		defer s.Close()
		opts.Saver = s
	}

	summary, err := automatic.Play(ctx, opts)
	if summary != nil {
		fmt.Println(summary)
	}
	return err
}
