package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JonMunkholm/register/internal/core"
)

//go:embed schema.sql
var schemaSQL string

// sqliteCodec keeps the registry in a participants table. position records
// the stored order; registry_meta marks that a save has happened.
type sqliteCodec struct {
	db *sql.DB
}

func openSQLite(path string) (*sqliteCodec, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &sqliteCodec{db: db}, nil
}

func (c *sqliteCodec) read(ctx context.Context) (core.RawTable, bool, error) {
	var saved string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM registry_meta WHERE key = 'saved_at'`).Scan(&saved)
	if err == sql.ErrNoRows {
		return core.RawTable{}, false, nil
	}
	if err != nil {
		return core.RawTable{}, false, fmt.Errorf("read meta: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT no, name, association, district, province, registered_on,
		       day1_attended, day2_attended, signature
		FROM participants
		ORDER BY position`)
	if err != nil {
		return core.RawTable{}, false, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var t core.Table
	for rows.Next() {
		var (
			p  core.Participant
			no sql.NullInt64
		)
		if err := rows.Scan(&no, &p.Name, &p.Association, &p.District, &p.Province,
			&p.RegisteredOn, &p.Day1Attended, &p.Day2Attended, &p.Signature); err != nil {
			return core.RawTable{}, false, fmt.Errorf("scan participant: %w", err)
		}
		if no.Valid {
			p.No = int(no.Int64)
		}
		t = append(t, p)
	}
	if err := rows.Err(); err != nil {
		return core.RawTable{}, false, fmt.Errorf("iterate participants: %w", err)
	}
	return t.Raw(), true, nil
}

func (c *sqliteCodec) write(ctx context.Context, t core.Table) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM participants`); err != nil {
		return fmt.Errorf("clear participants: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO participants (position, no, name, association, district, province,
			registered_on, day1_attended, day2_attended, signature)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range t {
		no := sql.NullInt64{Int64: int64(p.No), Valid: p.No > 0}
		if _, err := stmt.ExecContext(ctx, i, no, p.Name, p.Association, p.District, p.Province,
			p.RegisteredOn, p.Day1Attended, p.Day2Attended, p.Signature); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO registry_meta (key, value) VALUES ('saved_at', datetime('now'))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`); err != nil {
		return fmt.Errorf("update meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (c *sqliteCodec) close() error {
	return c.db.Close()
}
