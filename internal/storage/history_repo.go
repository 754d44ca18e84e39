package storage

import (
	"context"
	"fmt"
)

// HistoryRepo is an append-only log of claims per owner. It deliberately has
// no update or delete methods.
type HistoryRepo struct {
	db DBTX
}

func NewHistoryRepo(db DBTX) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Append(ctx context.Context, rec HistoryRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO history (owner, asset_id, depositor, quest_id, staked_at, claimed_at, reward, xp_awarded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.Owner, rec.AssetID, rec.Depositor, rec.QuestID, rec.StakedAt, rec.ClaimedAt, formatAmount(rec.Reward), rec.XPAwarded)
	if err != nil {
		return 0, fmt.Errorf("history append: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history last insert id: %w", err)
	}
	return seq, nil
}

// Page returns up to size records for owner starting at offset start, in
// append order.
func (r *HistoryRepo) Page(ctx context.Context, owner string, start, size int) ([]HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT seq, owner, asset_id, depositor, quest_id, staked_at, claimed_at, reward, xp_awarded
		FROM history
		WHERE owner = ?
		ORDER BY seq ASC
		LIMIT ? OFFSET ?
	`, owner, size, start)
	if err != nil {
		return nil, fmt.Errorf("history page: %w", err)
	}
	defer rows.Close()

	out := []HistoryRecord{}
	for rows.Next() {
		var (
			rec    HistoryRecord
			reward string
		)
		if err := rows.Scan(&rec.Seq, &rec.Owner, &rec.AssetID, &rec.Depositor, &rec.QuestID,
			&rec.StakedAt, &rec.ClaimedAt, &reward, &rec.XPAwarded); err != nil {
			return nil, fmt.Errorf("history scan: %w", err)
		}
		if rec.Reward, err = parseAmount(reward); err != nil {
			return nil, fmt.Errorf("history %d reward: %w", rec.Seq, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return out, nil
}

func (r *HistoryRepo) Count(ctx context.Context, owner string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history WHERE owner = ?`, owner).Scan(&n); err != nil {
		return 0, fmt.Errorf("history count: %w", err)
	}
	return n, nil
}
