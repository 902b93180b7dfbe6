package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore keeps snapshots in a PostgreSQL table as JSONB.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects and creates the schema if needed.
func NewPostgresStore(ctx context.Context, connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (ps *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS wildfire_snapshots (
		name TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		tick BIGINT NOT NULL,
		state JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	_, err := ps.db.ExecContext(ctx, schema)
	return err
}

// Save upserts the snapshot by name.
func (ps *PostgresStore) Save(ctx context.Context, snap *Snapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
	INSERT INTO wildfire_snapshots (name, seed, width, height, tick, state)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (name)
	DO UPDATE SET
		seed = $2, width = $3, height = $4, tick = $5, state = $6,
		updated_at = NOW()
	`
	_, err = ps.db.ExecContext(ctx, query,
		snap.Name, snap.Seed, snap.Width, snap.Height, int64(snap.Tick), string(state))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load fetches a snapshot by name.
func (ps *PostgresStore) Load(ctx context.Context, name string) (*Snapshot, error) {
	var state []byte
	err := ps.db.QueryRowContext(ctx,
		`SELECT state FROM wildfire_snapshots WHERE name = $1`, name).Scan(&state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(state, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", name, err)
	}
	return &snap, nil
}

// List returns the stored snapshot names in lexical order.
func (ps *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT name FROM wildfire_snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a snapshot.
func (ps *PostgresStore) Delete(ctx context.Context, name string) error {
	res, err := ps.db.ExecContext(ctx, `DELETE FROM wildfire_snapshots WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return nil
}

// Close closes the database connection.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
