package engine

import (
	"context"
	"strconv"
	"strings"

	"questvault/internal/storage"
)

// StartQuest registers a new quest. Only the owner may create quests. The
// creation time and participant counter are always set here, whatever the
// caller supplied.
func (s *Service) StartQuest(ctx context.Context, call Call, q storage.Quest) (*Response, error) {
	return s.exec(ctx, call, "start_quest", func(st *storage.Stores, cfg *storage.Config, res *Response) error {
		if err := requireOwner(cfg, call.Sender); err != nil {
			return err
		}
		if err := validateQuest(&q); err != nil {
			return err
		}

		existing, err := st.Quests.Get(ctx, q.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return newError(KindInvalidState, "quest id %d already exists", q.ID)
		}

		q.CreatedAt = call.unix()
		q.Participants = 0
		if err := st.Quests.Insert(ctx, q); err != nil {
			return err
		}
		res.attr("quest_id", strconv.FormatInt(q.ID, 10))
		return nil
	})
}

func validateQuest(q *storage.Quest) error {
	title := strings.TrimSpace(q.Title)
	if title == "" {
		return newError(KindInvalidState, "quest title is required")
	}
	q.Title = title
	if q.RequiredAssets < 1 {
		return newError(KindInvalidState, "quest must require at least one asset")
	}
	if q.StartTime < 0 || q.JoinWindow < 0 || q.StakingDuration < 0 || q.XPReward < 0 {
		return newError(KindInvalidState, "quest times, durations and xp reward must not be negative")
	}
	for _, t := range q.BonusTraits {
		if strings.TrimSpace(t.Category) == "" {
			return newError(KindInvalidState, "bonus condition is missing a category")
		}
	}
	return nil
}

// ListQuests is a free read.
func (s *Service) ListQuests(ctx context.Context) ([]storage.Quest, error) {
	return s.Stores().Quests.ListAll(ctx)
}

// joinable reports whether deposits are accepted at now: the window is
// [StartTime, StartTime+JoinWindow), compared by subtraction so a huge
// window cannot wrap around.
func joinable(q *storage.Quest, now int64) bool {
	return now >= q.StartTime && now-q.StartTime < q.JoinWindow
}

func (s *Service) questForEntry(ctx context.Context, st *storage.Stores, cache map[int64]*storage.Quest, id int64) (*storage.Quest, error) {
	if q, ok := cache[id]; ok {
		return q, nil
	}
	q, err := st.Quests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, newError(KindNotFound, "quest %d not found", id)
	}
	cache[id] = q
	return q, nil
}
