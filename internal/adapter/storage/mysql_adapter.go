package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

const createCollectionsTable = `
CREATE TABLE IF NOT EXISTS collections (
	name       VARCHAR(32) PRIMARY KEY,
	payload    LONGTEXT    NOT NULL,
	updated_at TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

// MySQLAdapter keeps each collection as one row of the collections table.
// payload is LONGTEXT rather than JSON because MySQL reorders JSON object keys
// and menu order is significant.
type MySQLAdapter struct {
	*collections
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB, logger zerolog.Logger) *MySQLAdapter {
	a := &MySQLAdapter{db: db}
	a.collections = &collections{
		blobs:  a,
		logger: logger.With().Str("component", "mysql_store").Logger(),
	}
	return a
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createCollectionsTable); err != nil {
		return fmt.Errorf("create collections table: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) read(ctx context.Context, name string) ([]byte, error) {
	var payload []byte
	err := m.db.QueryRowContext(ctx, `SELECT payload FROM collections WHERE name = ?`, name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	return payload, nil
}

func (m *MySQLAdapter) write(ctx context.Context, name string, data []byte) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO collections (name, payload) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload)`,
		name, string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert collection: %w", err)
	}

	return tx.Commit()
}
