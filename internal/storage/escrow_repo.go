package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type EscrowRepo struct {
	db DBTX
}

func NewEscrowRepo(db DBTX) *EscrowRepo {
	return &EscrowRepo{db: db}
}

// Load returns owner's full collection. An owner with nothing staked gets an
// empty, non-nil collection.
func (r *EscrowRepo) Load(ctx context.Context, owner string) (*EscrowCollection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT asset_id, owner, depositor, quest_id, staked_at
		FROM escrow
		WHERE owner = ?
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("escrow load: %w", err)
	}
	defer rows.Close()

	c := &EscrowCollection{Owner: owner, Assets: map[string]StakedAsset{}}
	for rows.Next() {
		var a StakedAsset
		if err := rows.Scan(&a.AssetID, &a.Owner, &a.Depositor, &a.QuestID, &a.StakedAt); err != nil {
			return nil, fmt.Errorf("escrow scan: %w", err)
		}
		c.Assets[a.AssetID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("escrow rows: %w", err)
	}
	return c, nil
}

// Save writes the collection back, replacing whatever was stored for its owner.
func (r *EscrowRepo) Save(ctx context.Context, c *EscrowCollection) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM escrow WHERE owner = ?`, c.Owner); err != nil {
		return fmt.Errorf("escrow clear: %w", err)
	}
	for _, a := range c.Assets {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO escrow (asset_id, owner, depositor, quest_id, staked_at)
			VALUES (?, ?, ?, ?, ?)
		`, a.AssetID, c.Owner, a.Depositor, a.QuestID, a.StakedAt)
		if err != nil {
			return fmt.Errorf("escrow insert %s: %w", a.AssetID, err)
		}
	}
	return nil
}

// HolderOf returns the owner whose collection holds assetID, or "" if none.
func (r *EscrowRepo) HolderOf(ctx context.Context, assetID string) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT owner FROM escrow WHERE asset_id = ?`, assetID).Scan(&owner)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("escrow holder: %w", err)
	}
	return owner, nil
}

func (r *EscrowRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM escrow`).Scan(&n); err != nil {
		return 0, fmt.Errorf("escrow count: %w", err)
	}
	return n, nil
}

// Page lists staked assets across all owners, oldest deposit first.
func (r *EscrowRepo) Page(ctx context.Context, start, size int) ([]StakedAsset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT asset_id, owner, depositor, quest_id, staked_at
		FROM escrow
		ORDER BY staked_at ASC, asset_id ASC
		LIMIT ? OFFSET ?
	`, size, start)
	if err != nil {
		return nil, fmt.Errorf("escrow page: %w", err)
	}
	defer rows.Close()

	out := []StakedAsset{}
	for rows.Next() {
		var a StakedAsset
		if err := rows.Scan(&a.AssetID, &a.Owner, &a.Depositor, &a.QuestID, &a.StakedAt); err != nil {
			return nil, fmt.Errorf("escrow page scan: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("escrow page rows: %w", err)
	}
	return out, nil
}
