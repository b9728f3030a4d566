// Package actionlog is the append-only record of everything that happened
// in a game, written for replay and analysis tooling.
package actionlog

import "time"

// Type is the stable discriminator of an Entry. Values are persisted; do
// not rename.
type Type string

const (
	TypeMove        Type = "move"
	TypeForcedStop  Type = "forced_stop"
	TypeArrive      Type = "arrive"
	TypeOrder       Type = "order"
	TypeSplit       Type = "split"
	TypeCombat      Type = "combat"
	TypeLoss        Type = "loss"
	TypeRedirect    Type = "redirect"
	TypeHold        Type = "hold"
	TypeExplore     Type = "explore"
	TypeColonize    Type = "colonize"
	TypeProduce     Type = "produce"
	TypeEliminate   Type = "eliminate"
	TypeTurn        Type = "turn"
	TypeVictory     Type = "victory"
	TypePlanFailure Type = "plan_failure"
)

// Entry is one logged action. Before and After are short human-readable
// summaries of the affected state.
type Entry struct {
	ID        string
	Time      time.Time
	GameID    string
	Turn      int
	Phase     string
	Player    int
	TaskForce int
	Type      Type
	Before    string
	After     string
}

// PlayerSummary is one player's row in the turn history.
type PlayerSummary struct {
	Turn          int
	Player        int
	Name          string
	Ships         int
	TaskForces    int
	Colonies      int
	Population    int
	VictoryPoints int
	Explored      int
	Eliminated    bool
}
