package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/hexfleet/internal/actionlog"
	"github.com/samdwyer/hexfleet/internal/combat"
	"github.com/samdwyer/hexfleet/internal/destination"
	"github.com/samdwyer/hexfleet/internal/dice"
	"github.com/samdwyer/hexfleet/internal/entity"
	"github.com/samdwyer/hexfleet/internal/fleet"
	"github.com/samdwyer/hexfleet/internal/gamedata"
	"github.com/samdwyer/hexfleet/internal/movement"
	"github.com/samdwyer/hexfleet/internal/telemetry"
	"github.com/samdwyer/hexfleet/internal/world"
)

var (
	ErrNoPlayers       = errors.New("game needs at least one player")
	ErrDuplicatePlayer = errors.New("duplicate player id")
	ErrPlayerID        = errors.New("player ids must be positive")
	ErrGameOver        = errors.New("game is over")
)

// PlayerSetup is one player's starting position. The starting fleet is
// placed in the home fleet at the player's entry hex.
type PlayerSetup struct {
	Player    *entity.Player
	Fleet     entity.Fleet
	Commander Commander
}

// StepResult describes the step that just ran.
type StepResult struct {
	Turn     int
	Phase    Phase
	Player   int
	Yield    bool
	GameOver bool
}

// TurnSnapshot is the history row written at the start of every turn.
type TurnSnapshot struct {
	Turn       int
	Production bool
	Players    []actionlog.PlayerSummary
}

// Option configures a Game.
type Option func(*Game)

// WithSink sends action-log entries to s.
func WithSink(s actionlog.Sink) Option {
	return func(g *Game) {
		g.sink = s
	}
}

// WithScorer replaces the PopulationScorer.
func WithScorer(s Scorer) Option {
	return func(g *Game) {
		g.scorer = s
	}
}

// WithID sets the game id instead of generating one.
func WithID(id string) Option {
	return func(g *Game) {
		if id != "" {
			g.id = id
		}
	}
}

// WithUnits replaces the embedded unit catalog.
func WithUnits(r *gamedata.UnitRegistry) Option {
	return func(g *Game) {
		g.units = r
	}
}

// Game holds the entire game state.
type Game struct {
	id     string
	cfg    Config
	galaxy *world.Galaxy

	players    []*entity.Player
	ledgers    map[int]*fleet.Ledger
	commanders map[int]Commander

	turn        int
	phase       Phase
	playerIndex int

	roller   *dice.Roller
	movement *movement.Engine
	resolver *combat.Resolver
	selector *destination.Selector
	journal  *actionlog.Journal
	sink     actionlog.Sink
	scorer   Scorer
	units    *gamedata.UnitRegistry

	queue          map[int][]BuildOrder
	history        []TurnSnapshot
	productionRuns int
	winner         int
	over           bool

	log zerolog.Logger
}

// New creates a game on turn 1, Movement phase, first player to act.
func New(cfg Config, galaxy *world.Galaxy, setups []PlayerSetup, opts ...Option) (*Game, error) {
	if len(setups) == 0 {
		return nil, ErrNoPlayers
	}

	g := &Game{
		id:         uuid.NewString(),
		cfg:        cfg,
		galaxy:     galaxy,
		ledgers:    make(map[int]*fleet.Ledger),
		commanders: make(map[int]Commander),
		turn:       1,
		phase:      PhaseMovement,
		roller:     dice.NewRoller(cfg.Seed),
		sink:       actionlog.NopSink{},
		scorer:     PopulationScorer{},
		queue:      make(map[int][]BuildOrder),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.units == nil {
		units, err := gamedata.LoadUnitRegistry()
		if err != nil {
			return nil, err
		}
		g.units = units
	}
	g.log = log.With().Str("component", "game").Str("game_id", g.id).Logger()

	for _, s := range setups {
		p := s.Player
		if p.ID <= 0 {
			return nil, fmt.Errorf("player %d: %w", p.ID, ErrPlayerID)
		}
		if _, dup := g.ledgers[p.ID]; dup {
			return nil, fmt.Errorf("player %d: %w", p.ID, ErrDuplicatePlayer)
		}
		if !galaxy.Grid.Contains(p.Entry) {
			return nil, fmt.Errorf("player %d entry %s: %w", p.ID, p.Entry, world.ErrOffBoard)
		}
		l := fleet.NewLedger(p.ID)
		for _, t := range entity.AllShipTypes() {
			if n := s.Fleet[t]; n > 0 {
				if err := l.Add(t, n, p.Entry, fleet.HomeFleet); err != nil {
					return nil, err
				}
			}
		}
		cmd := s.Commander
		if cmd == nil {
			cmd = Idle{}
		}
		g.players = append(g.players, p)
		g.ledgers[p.ID] = l
		g.commanders[p.ID] = cmd
	}

	if g.cfg.CommandRadius <= 0 {
		g.cfg.CommandRadius = destination.DefaultCommandRadius
	}
	b := board{Galaxy: galaxy, g: g}
	g.journal = actionlog.NewJournal(g.id, g.sink)
	g.journal.SetPosition(g.turn, g.phase.String())
	g.movement = movement.NewEngine(galaxy.Grid, b, g.journal)
	g.selector = destination.NewSelector(galaxy.Grid, b, g.roller).WithRadius(g.cfg.CommandRadius)
	g.resolver = combat.NewResolver(b, g.roller, redirector{g: g}, g.journal, combat.WithMode(cfg.CombatMode))
	g.playerIndex = g.firstActive()

	g.log.Info().Uint64("seed", g.roller.Seed()).Int("players", len(g.players)).
		Int("stars", len(galaxy.Stars())).Msg("game created")
	return g, nil
}

// Run steps the game until it ends or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.run")
	defer span.End()

	steps := 0
	for !g.over {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := g.Step(ctx); err != nil {
			return err
		}
		steps++
	}

	span.SetAttributes(
		attribute.String("game.id", g.id),
		attribute.Int("game.turns", g.turn),
		attribute.Int("game.steps", steps),
		attribute.Int("game.winner", g.winner),
	)
	return nil
}

// Step runs the current phase for the current player and moves on to the
// next active player, phase or turn.
func (g *Game) Step(ctx context.Context) (StepResult, error) {
	if g.over {
		return StepResult{Turn: g.turn, Phase: g.phase, GameOver: true}, ErrGameOver
	}

	p := g.players[g.playerIndex]
	res := StepResult{
		Turn:   g.turn,
		Phase:  g.phase,
		Player: p.ID,
		Yield:  g.phase.RequiresInput(),
	}
	g.journal.SetPosition(g.turn, g.phase.String())

	if err := g.runPhase(ctx, p); err != nil {
		return res, fmt.Errorf("turn %d %s player %d: %w", g.turn, g.phase, p.ID, err)
	}
	if err := g.nextPlayer(ctx); err != nil {
		return res, err
	}
	res.GameOver = g.over
	return res, nil
}

func (g *Game) runPhase(ctx context.Context, p *entity.Player) error {
	switch g.phase {
	case PhaseMovement:
		return g.movementStep(ctx, p)
	case PhaseExploration:
		g.explorationStep(p)
		return nil
	case PhaseColonization:
		g.colonizationStep(p)
		return nil
	case PhaseCombat:
		_, err := g.ResolveCombat(ctx, p.ID, g.turn)
		return err
	case PhaseProduction:
		g.productionStep(p)
		return nil
	default:
		return fmt.Errorf("unknown phase %d", g.phase)
	}
}

func (g *Game) nextPlayer(ctx context.Context) error {
	for i := g.playerIndex + 1; i < len(g.players); i++ {
		if !g.players[i].Eliminated {
			g.playerIndex = i
			return nil
		}
	}
	return g.AdvancePhase(ctx)
}

// AdvancePhase moves to the next phase with the first active player.
// Leaving Production advances the turn.
func (g *Game) AdvancePhase(ctx context.Context) error {
	if g.phase == PhaseProduction {
		return g.AdvanceTurn(ctx)
	}
	g.phase = g.phase.Next()
	g.playerIndex = g.firstActive()
	return nil
}

// AdvanceMovement moves the player's planned task forces for turn.
func (g *Game) AdvanceMovement(ctx context.Context, player, turn int) (bool, error) {
	p := g.Player(player)
	if p == nil {
		return false, nil
	}
	return g.movement.Advance(ctx, g.ledgers[player], p.Speed, turn)
}

// ResolveCombat fights every engagement the player is part of.
func (g *Game) ResolveCombat(ctx context.Context, player, turn int) (bool, error) {
	return g.resolver.ResolvePhase(ctx, player, turn)
}

func (g *Game) firstActive() int {
	for i, p := range g.players {
		if !p.Eliminated {
			return i
		}
	}
	return 0
}

// ID returns the game id.
func (g *Game) ID() string { return g.id }

// Config returns the configuration the game was created with.
func (g *Game) Config() Config { return g.cfg }

// Seed returns the dice seed, useful to replay a game.
func (g *Game) Seed() uint64 { return g.roller.Seed() }

// Turn returns the current turn, starting at 1.
func (g *Game) Turn() int { return g.turn }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Current returns the player about to act.
func (g *Game) Current() *entity.Player { return g.players[g.playerIndex] }

// Galaxy returns the board.
func (g *Game) Galaxy() *world.Galaxy { return g.galaxy }

// Players returns every player in turn order, eliminated ones included.
func (g *Game) Players() []*entity.Player { return g.players }

// Player returns the player with id, or nil.
func (g *Game) Player(id int) *entity.Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Ledger returns the player's task force ledger, or nil.
func (g *Game) Ledger(player int) *fleet.Ledger { return g.ledgers[player] }

// History returns the turn snapshots taken so far.
func (g *Game) History() []TurnSnapshot { return g.history }

// ProductionRuns returns how many production turns have been processed.
func (g *Game) ProductionRuns() int { return g.productionRuns }

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.over }

// Winner returns the winning player id, 0 for none.
func (g *Game) Winner() int { return g.winner }

// VictoryPoints returns the player's current score.
func (g *Game) VictoryPoints(player int) int {
	return g.scorer.VictoryPoints(player, g.galaxy)
}
