package gamedata

import (
	"errors"
	"fmt"
)

// AttackEntry is one cell of the attack table: roll Dice six-sided dice and
// hit when the total is at most TargetNumber, or equal to it when Exact is
// set. A TargetNumber of zero cannot be hit.
type AttackEntry struct {
	Attacker     string `json:"attacker"`
	Target       string `json:"target"`
	Dice         int    `json:"dice"`
	TargetNumber int    `json:"target_number"`
	Exact        bool   `json:"exact,omitempty"`
}

// Winnable reports whether any roll can hit.
func (e AttackEntry) Winnable() bool {
	return e.TargetNumber > 0
}

// Hits reports whether a dice total scores a kill.
func (e AttackEntry) Hits(roll int) bool {
	if !e.Winnable() {
		return false
	}
	if e.Exact {
		return roll == e.TargetNumber
	}
	return roll <= e.TargetNumber
}

// AttackTableFile represents the structure of attack_table.json.
type AttackTableFile struct {
	Attacks []AttackEntry `json:"attacks"`
}

type matchup struct {
	attacker, target string
}

// AttackTable looks up attack entries by attacker and target unit id.
type AttackTable struct {
	entries map[matchup]AttackEntry
}

// NewAttackTable indexes entries, rejecting duplicated matchups.
func NewAttackTable(entries []AttackEntry) (*AttackTable, error) {
	t := &AttackTable{entries: make(map[matchup]AttackEntry, len(entries))}
	for _, e := range entries {
		key := matchup{attacker: e.Attacker, target: e.Target}
		if _, dup := t.entries[key]; dup {
			return nil, fmt.Errorf("duplicate attack entry %s vs %s", e.Attacker, e.Target)
		}
		if e.Dice < 1 {
			return nil, fmt.Errorf("attack entry %s vs %s: dice must be positive", e.Attacker, e.Target)
		}
		t.entries[key] = e
	}
	return t, nil
}

// LoadAttackTable loads the embedded attack_table.json.
func LoadAttackTable() (*AttackTable, error) {
	file, err := Load[AttackTableFile]("attack_table.json")
	if err != nil {
		return nil, err
	}
	if len(file.Attacks) == 0 {
		return nil, errors.New("no attacks loaded from attack_table.json")
	}
	return NewAttackTable(file.Attacks)
}

// MustLoadAttackTable loads the attack table, panicking on error.
func MustLoadAttackTable() *AttackTable {
	table, err := LoadAttackTable()
	if err != nil {
		panic(err)
	}
	return table
}

// Lookup returns the entry for attacker firing on target.
func (t *AttackTable) Lookup(attacker, target string) (AttackEntry, bool) {
	e, ok := t.entries[matchup{attacker: attacker, target: target}]
	return e, ok
}

// Count returns the number of matchups in the table.
func (t *AttackTable) Count() int {
	return len(t.entries)
}
