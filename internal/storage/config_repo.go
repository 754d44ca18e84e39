package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type ConfigRepo struct {
	db DBTX
}

func NewConfigRepo(db DBTX) *ConfigRepo {
	return &ConfigRepo{db: db}
}

// Get returns the configuration record, or nil if setup has not run.
func (r *ConfigRepo) Get(ctx context.Context) (*Config, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT owner, self_address,
			custody_address, custody_code_hash, custody_viewing_key,
			reward_address, reward_code_hash, reward_viewing_key,
			level_cap, credential_key, created_at
		FROM config
		WHERE id = 1
	`)

	var c Config
	if err := row.Scan(
		&c.Owner, &c.SelfAddress,
		&c.Custody.Address, &c.Custody.CodeHash, &c.CustodyViewingKey,
		&c.Reward.Address, &c.Reward.CodeHash, &c.RewardViewingKey,
		&c.LevelCap, &c.CredentialKey, &c.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("config get: %w", err)
	}
	return &c, nil
}

// Insert stores the configuration. There is no update path.
func (r *ConfigRepo) Insert(ctx context.Context, c Config) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (
			id, owner, self_address,
			custody_address, custody_code_hash, custody_viewing_key,
			reward_address, reward_code_hash, reward_viewing_key,
			level_cap, credential_key, created_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.Owner, c.SelfAddress,
		c.Custody.Address, c.Custody.CodeHash, c.CustodyViewingKey,
		c.Reward.Address, c.Reward.CodeHash, c.RewardViewingKey,
		c.LevelCap, c.CredentialKey, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("config insert: %w", err)
	}
	return nil
}

func (r *ConfigRepo) InsertLevels(ctx context.Context, levels []Level) error {
	for _, l := range levels {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO levels (level, xp_threshold) VALUES (?, ?)`, l.Level, l.XPThreshold); err != nil {
			return fmt.Errorf("level insert: %w", err)
		}
	}
	return nil
}

// Levels returns the level table ordered by level.
func (r *ConfigRepo) Levels(ctx context.Context) ([]Level, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT level, xp_threshold FROM levels ORDER BY level ASC`)
	if err != nil {
		return nil, fmt.Errorf("level list: %w", err)
	}
	defer rows.Close()

	var out []Level
	for rows.Next() {
		var l Level
		if err := rows.Scan(&l.Level, &l.XPThreshold); err != nil {
			return nil, fmt.Errorf("level scan: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("level rows: %w", err)
	}
	return out, nil
}
