package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// OutboxRepo records outbound effects in the same transaction as the state
// change that produced them, so delivery outcomes can be reconciled later.
type OutboxRepo struct {
	db DBTX
}

func NewOutboxRepo(db DBTX) *OutboxRepo {
	return &OutboxRepo{db: db}
}

func (r *OutboxRepo) Enqueue(ctx context.Context, e Effect, now int64) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal effect: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO outbox (id, kind, contract_address, payload, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Kind), e.Contract.Address, string(payload), string(OutboxQueued), now, now)
	if err != nil {
		return fmt.Errorf("outbox enqueue: %w", err)
	}
	return nil
}

func (r *OutboxRepo) Get(ctx context.Context, id string) (*OutboxEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT seq, payload, status, reason, created_at, updated_at
		FROM outbox
		WHERE id = ?
	`, id)
	return scanOutboxRow(row)
}

// List returns entries in enqueue order. An empty status lists everything.
func (r *OutboxRepo) List(ctx context.Context, status OutboxStatus) ([]OutboxEntry, error) {
	query := `SELECT seq, payload, status, reason, created_at, updated_at FROM outbox`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("outbox list: %w", err)
	}
	defer rows.Close()

	var out []OutboxEntry
	for rows.Next() {
		e, err := scanOutboxRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outbox rows: %w", err)
	}
	return out, nil
}

func (r *OutboxRepo) SetStatus(ctx context.Context, id string, status OutboxStatus, reason string, now int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox SET status = ?, reason = ?, updated_at = ? WHERE id = ?
	`, string(status), reason, now, id)
	if err != nil {
		return fmt.Errorf("outbox set status: %w", err)
	}
	return nil
}

func scanOutboxRow(row scanner) (*OutboxEntry, error) {
	var (
		e       OutboxEntry
		payload string
		status  string
	)
	if err := row.Scan(&e.Seq, &payload, &status, &e.Reason, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("outbox scan: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &e.Effect); err != nil {
		return nil, fmt.Errorf("unmarshal effect: %w", err)
	}
	e.Status = OutboxStatus(status)
	return &e, nil
}
