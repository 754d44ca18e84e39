package storage

import (
	"context"
	"fmt"
)

type RevocationRepo struct {
	db DBTX
}

func NewRevocationRepo(db DBTX) *RevocationRepo {
	return &RevocationRepo{db: db}
}

// Revoke is idempotent; revoking twice keeps the first timestamp.
func (r *RevocationRepo) Revoke(ctx context.Context, address, name string, at int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revoked_permits (address, name, revoked_at) VALUES (?, ?, ?)
		ON CONFLICT(address, name) DO NOTHING
	`, address, name, at)
	if err != nil {
		return fmt.Errorf("permit revoke: %w", err)
	}
	return nil
}

// Names lists the revoked permit names for address.
func (r *RevocationRepo) Names(ctx context.Context, address string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM revoked_permits WHERE address = ? ORDER BY name ASC`, address)
	if err != nil {
		return nil, fmt.Errorf("permit revoked list: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("permit revoked scan: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("permit revoked rows: %w", err)
	}
	return out, nil
}
