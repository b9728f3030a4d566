// Package storage persists the action log and turn history to SQLite for
// replay and analysis tooling.
package storage

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/samdwyer/hexfleet/internal/actionlog"
)

// ActionRecord is one persisted action-log entry.
type ActionRecord struct {
	ID        string `gorm:"primaryKey"`
	GameID    string `gorm:"index:idx_action_game_turn"`
	Turn      int    `gorm:"index:idx_action_game_turn"`
	Phase     string
	Player    int
	TaskForce int
	Type      string `gorm:"index"`
	Before    string
	After     string
	CreatedAt time.Time
}

// SummaryRecord is one player's row of the turn history.
type SummaryRecord struct {
	ID            uint   `gorm:"primaryKey"`
	GameID        string `gorm:"index:idx_summary_game_turn"`
	Turn          int    `gorm:"index:idx_summary_game_turn"`
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

// Store writes one game's records. It implements actionlog.Sink.
type Store struct {
	db     *gorm.DB
	gameID string
	log    zerolog.Logger
}

var _ actionlog.Sink = (*Store)(nil)

// Open opens or creates the database at path and migrates the schema.
func Open(path, gameID string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&ActionRecord{}, &SummaryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}
	return &Store{
		db:     db,
		gameID: gameID,
		log:    log.With().Str("component", "storage").Str("game_id", gameID).Logger(),
	}, nil
}

// SetGameID changes the game id stamped on summaries. Entries carry their
// own.
func (s *Store) SetGameID(id string) {
	s.gameID = id
}

// Record implements actionlog.Sink. Write failures are logged, not
// returned, so a broken database never stops a game.
func (s *Store) Record(e actionlog.Entry) {
	gameID := e.GameID
	if gameID == "" {
		gameID = s.gameID
	}
	rec := ActionRecord{
		ID:        e.ID,
		GameID:    gameID,
		Turn:      e.Turn,
		Phase:     e.Phase,
		Player:    e.Player,
		TaskForce: e.TaskForce,
		Type:      string(e.Type),
		Before:    e.Before,
		After:     e.After,
		CreatedAt: e.Time,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		s.log.Error().Err(err).Str("type", rec.Type).Msg("failed to store action")
	}
}

// SaveSummaries stores a turn's player summaries in one transaction.
func (s *Store) SaveSummaries(rows []actionlog.PlayerSummary) error {
	if len(rows) == 0 {
		return nil
	}
	recs := make([]SummaryRecord, len(rows))
	for i, r := range rows {
		recs[i] = SummaryRecord{
			GameID:        s.gameID,
			Turn:          r.Turn,
			Player:        r.Player,
			Name:          r.Name,
			Ships:         r.Ships,
			TaskForces:    r.TaskForces,
			Colonies:      r.Colonies,
			Population:    r.Population,
			VictoryPoints: r.VictoryPoints,
			Explored:      r.Explored,
			Eliminated:    r.Eliminated,
		}
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&recs).Error
	})
}

// Actions returns the stored entries of a turn in insertion order.
func (s *Store) Actions(turn int) ([]actionlog.Entry, error) {
	var recs []ActionRecord
	err := s.db.Where("game_id = ? AND turn = ?", s.gameID, turn).
		Order("created_at, rowid").Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]actionlog.Entry, len(recs))
	for i, r := range recs {
		out[i] = actionlog.Entry{
			ID:        r.ID,
			Time:      r.CreatedAt,
			GameID:    r.GameID,
			Turn:      r.Turn,
			Phase:     r.Phase,
			Player:    r.Player,
			TaskForce: r.TaskForce,
			Type:      actionlog.Type(r.Type),
			Before:    r.Before,
			After:     r.After,
		}
	}
	return out, nil
}

// Summaries returns the stored history rows of a player, oldest first.
func (s *Store) Summaries(player int) ([]actionlog.PlayerSummary, error) {
	var recs []SummaryRecord
	if err := s.db.Where("game_id = ? AND player = ?", s.gameID, player).Order("turn").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]actionlog.PlayerSummary, len(recs))
	for i, r := range recs {
		out[i] = actionlog.PlayerSummary{
			Turn:          r.Turn,
			Player:        r.Player,
			Name:          r.Name,
			Ships:         r.Ships,
			TaskForces:    r.TaskForces,
			Colonies:      r.Colonies,
			Population:    r.Population,
			VictoryPoints: r.VictoryPoints,
			Explored:      r.Explored,
			Eliminated:    r.Eliminated,
		}
	}
	return out, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
