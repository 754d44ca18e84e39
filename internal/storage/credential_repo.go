package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type CredentialRepo struct {
	db DBTX
}

func NewCredentialRepo(db DBTX) *CredentialRepo {
	return &CredentialRepo{db: db}
}

func (r *CredentialRepo) Admin(ctx context.Context) (*ViewerInfo, error) {
	var v ViewerInfo
	err := r.db.QueryRowContext(ctx, `SELECT address, key_hash FROM admin_credential WHERE id = 1`).Scan(&v.Address, &v.KeyHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("admin credential get: %w", err)
	}
	return &v, nil
}

// SetAdmin overwrites the single admin slot.
func (r *CredentialRepo) SetAdmin(ctx context.Context, v ViewerInfo) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_credential (id, address, key_hash) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET address = excluded.address, key_hash = excluded.key_hash
	`, v.Address, v.KeyHash)
	if err != nil {
		return fmt.Errorf("admin credential set: %w", err)
	}
	return nil
}

func (r *CredentialRepo) User(ctx context.Context, address string) (*ViewerInfo, error) {
	var v ViewerInfo
	err := r.db.QueryRowContext(ctx, `SELECT address, key_hash FROM viewing_credentials WHERE address = ?`, address).Scan(&v.Address, &v.KeyHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("viewing credential get: %w", err)
	}
	return &v, nil
}

func (r *CredentialRepo) SetUser(ctx context.Context, v ViewerInfo) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO viewing_credentials (address, key_hash) VALUES (?, ?)
		ON CONFLICT(address) DO UPDATE SET key_hash = excluded.key_hash
	`, v.Address, v.KeyHash)
	if err != nil {
		return fmt.Errorf("viewing credential set: %w", err)
	}
	return nil
}
