package actionlog

import (
	"time"

	"github.com/google/uuid"
)

// Journal stamps entries with ids, time and the game position before
// handing them to a sink. Components share the game's Journal.
type Journal struct {
	sink   Sink
	gameID string
	turn   int
	phase  string
	now    func() time.Time
}

// NewJournal creates a journal writing to sink. A nil sink discards.
func NewJournal(gameID string, sink Sink) *Journal {
	if sink == nil {
		sink = NopSink{}
	}
	return &Journal{sink: sink, gameID: gameID, now: time.Now}
}

// SetPosition updates the turn and phase stamped on later entries.
func (j *Journal) SetPosition(turn int, phase string) {
	j.turn = turn
	j.phase = phase
}

// Record stamps and writes an entry.
func (j *Journal) Record(t Type, player, taskForce int, before, after string) {
	if j == nil {
		return
	}
	SafeRecord(j.sink, Entry{
		ID:        uuid.NewString(),
		Time:      j.now().UTC(),
		GameID:    j.gameID,
		Turn:      j.turn,
		Phase:     j.phase,
		Player:    player,
		TaskForce: taskForce,
		Type:      t,
		Before:    before,
		After:     after,
	})
}
