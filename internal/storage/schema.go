package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type migration struct {
	version int
	name    string
	stmts   []string
}

// migrations are applied in order, each at most once. Older entity shapes are
// handled by appending a migration, never by adding a parallel table.
var migrations = []migration{
	{
		version: 1,
		name:    "core",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS config (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				owner TEXT NOT NULL,
				self_address TEXT NOT NULL,
				custody_address TEXT NOT NULL,
				custody_code_hash TEXT NOT NULL,
				custody_viewing_key TEXT NOT NULL,
				reward_address TEXT NOT NULL,
				reward_code_hash TEXT NOT NULL,
				reward_viewing_key TEXT NOT NULL,
				level_cap INTEGER NOT NULL,
				credential_key BLOB NOT NULL,
				created_at INTEGER NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS levels (
				level INTEGER PRIMARY KEY,
				xp_threshold INTEGER NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS admin_credential (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				address TEXT NOT NULL,
				key_hash TEXT NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS viewing_credentials (
				address TEXT PRIMARY KEY,
				key_hash TEXT NOT NULL
			);`,
			`CREATE TABLE IF NOT EXISTS quests (
				id INTEGER PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				join_window INTEGER NOT NULL,
				staking_duration INTEGER NOT NULL,
				required_assets INTEGER NOT NULL,
				start_time INTEGER NOT NULL,
				created_at INTEGER NOT NULL,
				xp_reward INTEGER NOT NULL,
				base_reward TEXT NOT NULL,
				bonus_reward TEXT NOT NULL,
				bonus_traits TEXT,
				participants INTEGER NOT NULL DEFAULT 0
			);`,
			// asset_id as the primary key keeps an asset in at most one collection.
			`CREATE TABLE IF NOT EXISTS escrow (
				asset_id TEXT PRIMARY KEY,
				owner TEXT NOT NULL,
				depositor TEXT NOT NULL,
				quest_id INTEGER NOT NULL,
				staked_at INTEGER NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_escrow_owner ON escrow(owner);`,
			`CREATE TABLE IF NOT EXISTS history (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				owner TEXT NOT NULL,
				asset_id TEXT NOT NULL,
				depositor TEXT NOT NULL,
				quest_id INTEGER NOT NULL,
				staked_at INTEGER NOT NULL,
				claimed_at INTEGER NOT NULL,
				reward TEXT NOT NULL,
				xp_awarded INTEGER NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_history_owner_seq ON history(owner, seq);`,
			`CREATE TABLE IF NOT EXISTS revoked_permits (
				address TEXT NOT NULL,
				name TEXT NOT NULL,
				revoked_at INTEGER NOT NULL,
				PRIMARY KEY (address, name)
			);`,
		},
	},
	{
		version: 2,
		name:    "outbox",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS outbox (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				id TEXT NOT NULL UNIQUE,
				kind TEXT NOT NULL,
				contract_address TEXT NOT NULL,
				payload TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'queued',
				reason TEXT NOT NULL DEFAULT '',
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL
			);`,
			`CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox(status, seq);`,
		},
	},
}

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at INTEGER NOT NULL
	);`); err != nil {
		return fmt.Errorf("migrate: ensure migration table: %w", err)
	}

	for _, m := range migrations {
		applied, err := migrationApplied(ctx, db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		err = WithTx(ctx, db, func(tx *sql.Tx) error {
			for _, stmt := range m.stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migrate %d_%s: %w", m.version, m.name, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
				m.version, m.name, time.Now().UTC().Unix())
			if err != nil {
				return fmt.Errorf("migrate record %d_%s: %w", m.version, m.name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func migrationApplied(ctx context.Context, db *sql.DB, version int) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM schema_migrations WHERE version = ?`, version).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("migrate check %d: %w", version, err)
	}
	return true, nil
}
