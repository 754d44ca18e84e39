package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
)

type QuestRepo struct {
	db DBTX
}

func NewQuestRepo(db DBTX) *QuestRepo {
	return &QuestRepo{db: db}
}

const questColumns = `id, title, description, join_window, staking_duration, required_assets,
	start_time, created_at, xp_reward, base_reward, bonus_reward, bonus_traits, participants`

func (r *QuestRepo) Insert(ctx context.Context, q Quest) error {
	var traitsJSON *string
	if len(q.BonusTraits) > 0 {
		data, err := json.Marshal(q.BonusTraits)
		if err != nil {
			return fmt.Errorf("marshal bonus traits: %w", err)
		}
		s := string(data)
		traitsJSON = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quests (`+questColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ID, q.Title, q.Description, q.JoinWindow, q.StakingDuration, q.RequiredAssets,
		q.StartTime, q.CreatedAt, q.XPReward, formatAmount(q.BaseReward), formatAmount(q.BonusReward),
		traitsJSON, q.Participants)
	if err != nil {
		return fmt.Errorf("quest insert: %w", err)
	}
	return nil
}

func (r *QuestRepo) Get(ctx context.Context, id int64) (*Quest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+questColumns+` FROM quests WHERE id = ?`, id)
	return scanQuestRow(row)
}

func (r *QuestRepo) ListAll(ctx context.Context) ([]Quest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+questColumns+` FROM quests ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("quest list: %w", err)
	}
	defer rows.Close()

	var out []Quest
	for rows.Next() {
		q, err := scanQuestRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest list rows: %w", err)
	}
	return out, nil
}

// AddParticipants is the only mutation a quest sees after creation.
func (r *QuestRepo) AddParticipants(ctx context.Context, id int64, n int64) error {
	if n < 0 {
		return fmt.Errorf("quest participants: negative increment %d", n)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE quests SET participants = participants + ? WHERE id = ?`, n, id)
	if err != nil {
		return fmt.Errorf("quest participants: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("quest participants: quest %d not found", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestRow(row scanner) (*Quest, error) {
	var (
		q         Quest
		base      string
		bonus     string
		traitsRaw sql.NullString
	)
	if err := row.Scan(
		&q.ID, &q.Title, &q.Description, &q.JoinWindow, &q.StakingDuration, &q.RequiredAssets,
		&q.StartTime, &q.CreatedAt, &q.XPReward, &base, &bonus, &traitsRaw, &q.Participants,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("quest scan: %w", err)
	}

	var err error
	if q.BaseReward, err = parseAmount(base); err != nil {
		return nil, fmt.Errorf("quest %d base reward: %w", q.ID, err)
	}
	if q.BonusReward, err = parseAmount(bonus); err != nil {
		return nil, fmt.Errorf("quest %d bonus reward: %w", q.ID, err)
	}
	if traitsRaw.Valid && traitsRaw.String != "" {
		if err := json.Unmarshal([]byte(traitsRaw.String), &q.BonusTraits); err != nil {
			return nil, fmt.Errorf("unmarshal bonus traits: %w", err)
		}
	}
	return &q, nil
}

// Amounts are stored as decimal text because SQLite integers are signed.
func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseAmount(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
