package factstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/ppiankov/factlens/internal/model"
)

// SQLite layout. The ord column preserves dataset insertion order; ids are
// not declared unique so duplicates surface as integrity problems on load
// rather than as SQL errors.
var schema = []string{
	`CREATE TABLE entities (
		ord INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		aliases TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE sources (
		ord INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		publisher TEXT NOT NULL DEFAULT '',
		published_at TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		reliability_tier TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE facts (
		ord INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		subject_entity_id TEXT NOT NULL,
		predicate TEXT NOT NULL DEFAULT '',
		object_label TEXT NOT NULL,
		object_type TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		severity TEXT NOT NULL DEFAULT '',
		location_entity_ids TEXT NOT NULL DEFAULT '[]',
		source_id TEXT NOT NULL,
		evidence_snippet TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX idx_facts_subject ON facts(subject_entity_id)`,
}

// ExportSQLite writes ds into a new SQLite database at path. It refuses to
// overwrite an existing file.
func ExportSQLite(ctx context.Context, ds model.Dataset, path string) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("refusing to overwrite existing file: %s", path)
	}

	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close database: %w", closeErr)
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	for i, e := range ds.Entities {
		aliases, err := json.Marshal(nonNil(e.Aliases))
		if err != nil {
			return fmt.Errorf("encode aliases for %s: %w", e.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entities (ord, id, name, type, aliases) VALUES (?, ?, ?, ?, ?)`,
			i, e.ID, e.Name, e.Type, string(aliases)); err != nil {
			return fmt.Errorf("insert entity %s: %w", e.ID, err)
		}
	}

	for i, s := range ds.Sources {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sources (ord, id, title, publisher, published_at, url, reliability_tier) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, s.ID, s.Title, s.Publisher, s.PublishedAt, s.URL, s.ReliabilityTier); err != nil {
			return fmt.Errorf("insert source %s: %w", s.ID, err)
		}
	}

	for i, f := range ds.Facts {
		locations, err := json.Marshal(nonNil(f.LocationEntityIDs))
		if err != nil {
			return fmt.Errorf("encode locations for %s: %w", f.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO facts (ord, id, subject_entity_id, predicate, object_label, object_type, date, severity, location_entity_ids, source_id, evidence_snippet)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, f.ID, f.SubjectEntityID, f.Predicate, f.ObjectLabel, f.ObjectType, f.Date, f.Severity, string(locations), f.SourceID, f.EvidenceSnippet); err != nil {
			return fmt.Errorf("insert fact %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func readSQLite(ctx context.Context, path string) (model.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return model.Dataset{}, fmt.Errorf("read dataset: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return model.Dataset{}, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var ds model.Dataset

	ds.Entities, err = queryRows(ctx, db, `SELECT id, name, type, aliases FROM entities ORDER BY ord`,
		func(rows *sql.Rows) (model.Entity, error) {
			var e model.Entity
			var aliases string
			if err := rows.Scan(&e.ID, &e.Name, &e.Type, &aliases); err != nil {
				return e, err
			}
			if err := json.Unmarshal([]byte(aliases), &e.Aliases); err != nil {
				return e, fmt.Errorf("entity %s: decode aliases: %w", e.ID, err)
			}
			return e, nil
		})
	if err != nil {
		return model.Dataset{}, fmt.Errorf("read entities: %w", err)
	}

	ds.Sources, err = queryRows(ctx, db, `SELECT id, title, publisher, published_at, url, reliability_tier FROM sources ORDER BY ord`,
		func(rows *sql.Rows) (model.Source, error) {
			var s model.Source
			err := rows.Scan(&s.ID, &s.Title, &s.Publisher, &s.PublishedAt, &s.URL, &s.ReliabilityTier)
			return s, err
		})
	if err != nil {
		return model.Dataset{}, fmt.Errorf("read sources: %w", err)
	}

	ds.Facts, err = queryRows(ctx, db, `SELECT id, subject_entity_id, predicate, object_label, object_type, date, severity, location_entity_ids, source_id, evidence_snippet FROM facts ORDER BY ord`,
		func(rows *sql.Rows) (model.Fact, error) {
			var f model.Fact
			var locations string
			if err := rows.Scan(&f.ID, &f.SubjectEntityID, &f.Predicate, &f.ObjectLabel, &f.ObjectType,
				&f.Date, &f.Severity, &locations, &f.SourceID, &f.EvidenceSnippet); err != nil {
				return f, err
			}
			if err := json.Unmarshal([]byte(locations), &f.LocationEntityIDs); err != nil {
				return f, fmt.Errorf("fact %s: decode locations: %w", f.ID, err)
			}
			return f, nil
		})
	if err != nil {
		return model.Dataset{}, fmt.Errorf("read facts: %w", err)
	}

	if len(ds.Entities) == 0 && len(ds.Facts) == 0 && len(ds.Sources) == 0 {
		return model.Dataset{}, errors.New("dataset is empty")
	}
	return ds, nil
}

func queryRows[T any](ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
