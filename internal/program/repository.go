package program

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/myrjola/programsmith/internal/errors"
	"github.com/myrjola/programsmith/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// StoredProgram is a returned program together with the request that produced it.
type StoredProgram struct {
	Program        GeneratedProgram
	Profile        TrainingProfile
	FallbackReason FallbackReason
	CreatedAt      time.Time
}

// sqliteRepository stores returned programs.
type sqliteRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newSQLiteRepository(db *sqlite.Database, logger *slog.Logger) *sqliteRepository {
	return &sqliteRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sqliteRepository) save(ctx context.Context, profile TrainingProfile, result Result) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "marshal profile")
	}
	programJSON, err := json.Marshal(result.Program)
	if err != nil {
		return errors.Wrap(err, "marshal program")
	}
	if _, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO programs (id, profile_json, program_json, provenance, fallback_reason)
		VALUES (?, ?, ?, ?, ?)`,
		result.Program.ID,
		string(profileJSON),
		string(programJSON),
		string(result.Program.Provenance),
		string(result.FallbackReason),
	); err != nil {
		return errors.Wrap(err, "insert program", slog.String("id", result.Program.ID))
	}
	return nil
}

func (r *sqliteRepository) get(ctx context.Context, id string) (StoredProgram, error) {
	var (
		stored      StoredProgram
		profileJSON string
		programJSON string
		reason      string
		createdAt   string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT profile_json, program_json, fallback_reason, created_at
		FROM programs
		WHERE id = ?`, id).Scan(&profileJSON, &programJSON, &reason, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredProgram{}, errors.Wrap(ErrNotFound, "query program", slog.String("id", id))
	}
	if err != nil {
		return StoredProgram{}, errors.Wrap(err, "query program", slog.String("id", id))
	}
	if err = json.Unmarshal([]byte(profileJSON), &stored.Profile); err != nil {
		return StoredProgram{}, errors.Wrap(err, "unmarshal profile", slog.String("id", id))
	}
	if err = json.Unmarshal([]byte(programJSON), &stored.Program); err != nil {
		return StoredProgram{}, errors.Wrap(err, "unmarshal program", slog.String("id", id))
	}
	if stored.CreatedAt, err = time.Parse(timestampFormat, createdAt); err != nil {
		return StoredProgram{}, errors.Wrap(err, "parse created_at", slog.String("value", createdAt))
	}
	stored.FallbackReason = FallbackReason(reason)
	return stored, nil
}
