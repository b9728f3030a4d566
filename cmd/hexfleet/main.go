// Package main is the entry point for the hexfleet simulation runner.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/samdwyer/hexfleet/internal/actionlog"
	"github.com/samdwyer/hexfleet/internal/ai"
	"github.com/samdwyer/hexfleet/internal/combat"
	"github.com/samdwyer/hexfleet/internal/config"
	"github.com/samdwyer/hexfleet/internal/dice"
	"github.com/samdwyer/hexfleet/internal/game"
	"github.com/samdwyer/hexfleet/internal/gamedata"
	"github.com/samdwyer/hexfleet/internal/scenario"
	"github.com/samdwyer/hexfleet/internal/storage"
	"github.com/samdwyer/hexfleet/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
}

func run() error {
	envFile := flag.String("env", ".env", "environment file to load")
	seed := flag.Uint64("seed", 0, "dice seed (0 picks one)")
	turns := flag.Int("turns", 0, "maximum turns")
	vp := flag.Int("vp", 0, "victory points needed to win")
	scenarioPath := flag.String("scenario", "", "scenario YAML file (embedded default when empty)")
	dbPath := flag.String("db", "", "SQLite file for the action log")
	mode := flag.String("combat", "", "combat mode: aggregate or table")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "turns":
			cfg.MaxTurns = *turns
		case "vp":
			cfg.VictoryPoints = *vp
		case "scenario":
			cfg.Scenario = *scenarioPath
		case "db":
			cfg.DB = *dbPath
		case "combat":
			cfg.CombatMode = *mode
		}
	})
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gameID := uuid.NewString()
	config.ApplyOTelEnv()
	shutdown, err := telemetry.Setup(ctx, telemetry.Options{Enabled: cfg.Telemetry, GameID: gameID})
	if err != nil {
		log.Warn().Err(err).Msg("telemetry setup failed; running without traces")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("error shutting down telemetry")
			}
		}()
	}

	combatMode, ok := combat.ParseMode(cfg.CombatMode)
	if !ok {
		return fmt.Errorf("unknown combat mode %q", cfg.CombatMode)
	}

	file, err := loadScenario(cfg.Scenario)
	if err != nil {
		return err
	}
	// The generator and the game share one seed so a run can be replayed.
	rng := dice.NewRoller(cfg.Seed)
	galaxy, setups, err := file.Build(ctx, rng)
	if err != nil {
		return err
	}

	units, err := gamedata.LoadUnitRegistry()
	if err != nil {
		return err
	}
	for i := range setups {
		setups[i].Commander = ai.NewGreedy(units)
	}

	sinks := []actionlog.Sink{actionlog.LogSink{Logger: log.Logger, Level: zerolog.DebugLevel}}
	var store *storage.Store
	if cfg.DB != "" {
		store, err = storage.Open(cfg.DB, gameID)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("error closing action log database")
			}
		}()
		sinks = append(sinks, store)
	}

	gcfg := game.DefaultConfig()
	gcfg.Seed = rng.Seed()
	gcfg.MaxTurns = cfg.MaxTurns
	gcfg.VictoryPoints = cfg.VictoryPoints
	gcfg.CombatMode = combatMode

	g, err := game.New(gcfg, galaxy, setups,
		game.WithID(gameID),
		game.WithUnits(units),
		game.WithSink(actionlog.Multi(sinks...)),
	)
	if err != nil {
		return err
	}
	log.Info().Str("game_id", gameID).Str("scenario", file.Name).Uint64("seed", g.Seed()).
		Str("combat", combatMode.String()).Msg("starting simulation")

	runErr := g.Run(ctx)

	if store != nil {
		for _, snap := range g.History() {
			if err := store.SaveSummaries(snap.Players); err != nil {
				log.Error().Err(err).Int("turn", snap.Turn).Msg("failed to store turn history")
			}
		}
	}
	if runErr != nil {
		return runErr
	}

	for _, p := range g.Players() {
		l := g.Ledger(p.ID)
		log.Info().Int("player", p.ID).Str("name", p.Name).
			Int("victory_points", g.VictoryPoints(p.ID)).
			Int("ships", l.Counts().Total()).
			Int("colonies", len(g.Galaxy().ColoniesOf(p.ID))).
			Bool("eliminated", p.Eliminated).
			Msg("final standing")
	}
	log.Info().Int("winner", g.Winner()).Int("turn", g.Turn()).Msg("simulation finished")
	return nil
}

func loadScenario(path string) (*scenario.File, error) {
	if path == "" {
		return scenario.Default()
	}
	return scenario.LoadFile(path)
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
