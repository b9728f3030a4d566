package combat

// Outcome is the result of one engagement.
type Outcome int

const (
	// MutualRetreat - neither side armed; both leave without losses
	MutualRetreat Outcome = iota
	// AttackerRetreatAfterBarrage - unarmed attacker took fire and retreats
	AttackerRetreatAfterBarrage
	// DefenderRetreatAfterBarrage - unarmed defender took fire and retreats
	DefenderRetreatAfterBarrage
	// AttackerVictory - decisive attacker win; defender retreats
	AttackerVictory
	// DefenderVictory - attacker repelled and retreats
	DefenderVictory
	// MutualWithdrawal - inconclusive; both sides withdraw
	MutualWithdrawal
)

// String returns the persisted outcome name.
func (o Outcome) String() string {
	switch o {
	case MutualRetreat:
		return "mutual_retreat"
	case AttackerRetreatAfterBarrage:
		return "attacker_retreat_after_barrage"
	case DefenderRetreatAfterBarrage:
		return "defender_retreat_after_barrage"
	case AttackerVictory:
		return "attacker_victory"
	case DefenderVictory:
		return "defender_victory"
	case MutualWithdrawal:
		return "mutual_withdrawal"
	default:
		return "unknown"
	}
}

// IsRetreat reports whether the losing side fled rather than withdrew.
func (o Outcome) IsRetreat() bool {
	switch o {
	case MutualRetreat, AttackerRetreatAfterBarrage, DefenderRetreatAfterBarrage:
		return true
	default:
		return false
	}
}

// IsBarrage reports whether unarmed ships were fired upon.
func (o Outcome) IsBarrage() bool {
	return o == AttackerRetreatAfterBarrage || o == DefenderRetreatAfterBarrage
}

// Side is one party to an engagement.
type Side int

const (
	Attacker Side = iota
	Defender
)

// String returns the side name.
func (s Side) String() string {
	if s == Attacker {
		return "attacker"
	}
	return "defender"
}

// Moving returns the sides that must leave the contested hex.
func (o Outcome) Moving() []Side {
	switch o {
	case AttackerRetreatAfterBarrage, DefenderVictory:
		return []Side{Attacker}
	case DefenderRetreatAfterBarrage, AttackerVictory:
		return []Side{Defender}
	default:
		return []Side{Attacker, Defender}
	}
}

// Mode selects how armed-versus-armed engagements are settled.
type Mode int

const (
	// ModeAggregate compares weighted warship counts.
	ModeAggregate Mode = iota
	// ModeAttackTable fires every warship once using the attack table.
	ModeAttackTable
)

// String returns the mode name used in configuration.
func (m Mode) String() string {
	switch m {
	case ModeAggregate:
		return "aggregate"
	case ModeAttackTable:
		return "table"
	default:
		return "unknown"
	}
}

// ParseMode maps a configuration value to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "aggregate":
		return ModeAggregate, true
	case "table":
		return ModeAttackTable, true
	default:
		return ModeAggregate, false
	}
}
