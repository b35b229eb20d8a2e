// Package store persists activity entries and day objectives.
//
// The store is a single-user SQLite database with one row per calendar
// day: entries accumulate in a JSON column keyed by date. The core only
// appends entries and reads days back; there is no update or delete on
// entries.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/zeittracker/zeit/internal/activity"
)

// Store handles persistence of activity entries and objectives.
type Store struct {
	db *sql.DB
}

// Open creates the storage directory if needed and opens the database.
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, "zeit.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_activities (
		date TEXT PRIMARY KEY,
		activities TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS day_objectives (
		date TEXT PRIMARY KEY,
		main_objective TEXT NOT NULL,
		secondary_objectives TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendEntry appends one entry to the given day, creating the day row on
// first use. The read-modify-write runs inside a transaction.
func (s *Store) AppendEntry(date string, entry activity.ActivityEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339)

	var raw string
	err = tx.QueryRow("SELECT activities FROM daily_activities WHERE date = ?", date).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		data, err := json.Marshal([]activity.ActivityEntry{entry})
		if err != nil {
			return fmt.Errorf("failed to encode entries: %w", err)
		}
		if _, err := tx.Exec(
			"INSERT INTO daily_activities (date, activities, created_at, updated_at) VALUES (?, ?, ?, ?)",
			date, string(data), now, now,
		); err != nil {
			return fmt.Errorf("failed to insert day record: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to read day record: %w", err)
	default:
		var entries []activity.ActivityEntry
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			return fmt.Errorf("failed to decode stored entries for %s: %w", date, err)
		}
		entries = append(entries, entry)
		data, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to encode entries: %w", err)
		}
		if _, err := tx.Exec(
			"UPDATE daily_activities SET activities = ?, updated_at = ? WHERE date = ?",
			string(data), now, date,
		); err != nil {
			return fmt.Errorf("failed to update day record: %w", err)
		}
	}

	return tx.Commit()
}

// GetDayRecord returns all entries for a day, or nil when the day has no
// record.
func (s *Store) GetDayRecord(date string) (*activity.DayRecord, error) {
	var raw string
	err := s.db.QueryRow("SELECT activities FROM daily_activities WHERE date = ?", date).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read day record: %w", err)
	}

	var entries []activity.ActivityEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode stored entries for %s: %w", date, err)
	}
	return &activity.DayRecord{Date: date, Activities: entries}, nil
}

// ListDates returns all dates with activity data, newest first.
func (s *Store) ListDates() ([]string, error) {
	rows, err := s.db.Query("SELECT date FROM daily_activities ORDER BY date DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// DeleteDay removes all entries for a day.
func (s *Store) DeleteDay(date string) error {
	_, err := s.db.Exec("DELETE FROM daily_activities WHERE date = ?", date)
	if err != nil {
		return fmt.Errorf("failed to delete day record: %w", err)
	}
	return nil
}

// GetObjectives returns the objectives for a day, or nil when none were set.
func (s *Store) GetObjectives(date string) (*activity.DayObjectives, error) {
	var (
		obj          activity.DayObjectives
		secondaries  string
		created, upd string
	)
	err := s.db.QueryRow(
		"SELECT date, main_objective, secondary_objectives, created_at, updated_at FROM day_objectives WHERE date = ?",
		date,
	).Scan(&obj.Date, &obj.MainObjective, &secondaries, &created, &upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read objectives: %w", err)
	}

	if err := json.Unmarshal([]byte(secondaries), &obj.SecondaryObjectives); err != nil {
		return nil, fmt.Errorf("failed to decode secondary objectives for %s: %w", date, err)
	}
	obj.CreatedAt, _ = time.Parse(time.RFC3339, created)
	obj.UpdatedAt, _ = time.Parse(time.RFC3339, upd)
	return &obj, nil
}

// SetObjectives creates or replaces the objectives for a day, preserving
// the original creation time on update.
func (s *Store) SetObjectives(obj activity.DayObjectives) error {
	if len(obj.SecondaryObjectives) > activity.MaxSecondaryObjectives {
		return fmt.Errorf("at most %d secondary objectives allowed", activity.MaxSecondaryObjectives)
	}

	secondaries := obj.SecondaryObjectives
	if secondaries == nil {
		secondaries = []string{}
	}
	data, err := json.Marshal(secondaries)
	if err != nil {
		return fmt.Errorf("failed to encode secondary objectives: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	_, err = s.db.Exec(`
		INSERT INTO day_objectives (date, main_objective, secondary_objectives, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			main_objective = excluded.main_objective,
			secondary_objectives = excluded.secondary_objectives,
			updated_at = excluded.updated_at`,
		obj.Date, obj.MainObjective, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save objectives: %w", err)
	}
	return nil
}

// DeleteObjectives removes the objectives for a day.
func (s *Store) DeleteObjectives(date string) error {
	_, err := s.db.Exec("DELETE FROM day_objectives WHERE date = ?", date)
	if err != nil {
		return fmt.Errorf("failed to delete objectives: %w", err)
	}
	return nil
}
