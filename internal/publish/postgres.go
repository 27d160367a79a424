package publish

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/JonMunkholm/register/internal/core"
)

const (
	createParticipantsSQL = `CREATE TABLE IF NOT EXISTS participants (
	no            INTEGER,
	name          TEXT NOT NULL,
	association   TEXT NOT NULL DEFAULT '',
	district      TEXT NOT NULL,
	province      TEXT NOT NULL,
	registered_on TEXT NOT NULL,
	day1_attended BOOLEAN NOT NULL DEFAULT FALSE,
	day2_attended BOOLEAN NOT NULL DEFAULT FALSE,
	signature     TEXT NOT NULL DEFAULT '',
	published_at  TIMESTAMPTZ NOT NULL
)`
	deleteParticipantsSQL = `DELETE FROM participants`
	insertParticipantSQL  = `INSERT INTO participants
	(no, name, association, district, province, registered_on, day1_attended, day2_attended, signature, published_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
)

// PostgresSink mirrors the participant table into Postgres for dashboards.
// Each publish replaces the whole table in one transaction.
type PostgresSink struct {
	db *sql.DB
}

// OpenPostgresSink connects with the pgx driver and verifies the connection.
func OpenPostgresSink(ctx context.Context, url string) (*PostgresSink, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("postgres sink: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres sink: ping: %w", err)
	}
	return NewPostgresSink(db), nil
}

// NewPostgresSink wraps an open database.
func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// Name identifies the sink in logs.
func (s *PostgresSink) Name() string {
	return "postgres"
}

// Close closes the database.
func (s *PostgresSink) Close() error {
	return s.db.Close()
}

// Publish replaces the participants table with the report's raw rows.
func (s *PostgresSink) Publish(ctx context.Context, r *core.Report) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, createParticipantsSQL); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, deleteParticipantsSQL); err != nil {
		return fmt.Errorf("clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertParticipantSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	publishedAt := r.GeneratedAt.UTC().Truncate(time.Second)
	for _, p := range r.Raw {
		var no any
		if p.No > 0 {
			no = int64(p.No)
		}
		if _, err = stmt.ExecContext(ctx,
			no, p.Name, p.Association, p.District, p.Province,
			p.RegisteredOn, p.Day1Attended, p.Day2Attended, p.Signature, publishedAt,
		); err != nil {
			return fmt.Errorf("insert %q: %w", p.Key(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
