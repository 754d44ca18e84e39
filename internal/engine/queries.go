package engine

import (
	"context"
	"math"

	"questvault/internal/storage"
)

// MaxPageSize bounds every paginated query.
const MaxPageSize = 100

// StateView is the admin's view of the engine configuration. Secrets and
// derived keys are never included.
type StateView struct {
	Owner       string
	SelfAddress string
	Custody     storage.Contract
	Reward      storage.Contract
	LevelCap    int
	Levels      []storage.Level
	Quests      []storage.Quest
}

func pageBounds(page, size int) (start, limit int, err error) {
	if page < 0 || size <= 0 {
		return 0, 0, newError(KindInvalidState, "page must be >= 0 and size > 0")
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page > math.MaxInt/MaxPageSize {
		return 0, 0, newError(KindInvalidState, "page %d is out of range", page)
	}
	return page * size, size, nil
}

func (s *Service) GetState(ctx context.Context, cred ViewingCredential) (*StateView, error) {
	st := s.Stores()
	cfg, err := s.loadConfig(ctx, st)
	if err != nil {
		return nil, err
	}
	if err := CheckAdminCredential(ctx, st, cfg, cred); err != nil {
		return nil, err
	}
	levels, err := st.Config.Levels(ctx)
	if err != nil {
		return nil, err
	}
	quests, err := st.Quests.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &StateView{
		Owner:       cfg.Owner,
		SelfAddress: cfg.SelfAddress,
		Custody:     cfg.Custody,
		Reward:      cfg.Reward,
		LevelCap:    cfg.LevelCap,
		Levels:      levels,
		Quests:      quests,
	}, nil
}

// GetUserStakedAssets lists the permit signer's escrow, oldest first.
func (s *Service) GetUserStakedAssets(ctx context.Context, permit string) ([]storage.StakedAsset, error) {
	st := s.Stores()
	cfg, err := s.loadConfig(ctx, st)
	if err != nil {
		return nil, err
	}
	owner, err := s.resolvePermit(ctx, st, cfg, permit)
	if err != nil {
		return nil, err
	}
	coll, err := st.Escrow.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return sortedAssets(coll), nil
}

func (s *Service) GetStakedAssetsCount(ctx context.Context, cred ViewingCredential) (int, error) {
	st := s.Stores()
	cfg, err := s.loadConfig(ctx, st)
	if err != nil {
		return 0, err
	}
	if err := CheckAdminCredential(ctx, st, cfg, cred); err != nil {
		return 0, err
	}
	return st.Escrow.Count(ctx)
}

func (s *Service) GetStakedAssetsPage(ctx context.Context, cred ViewingCredential, page, size int) ([]storage.StakedAsset, error) {
	st := s.Stores()
	cfg, err := s.loadConfig(ctx, st)
	if err != nil {
		return nil, err
	}
	if err := CheckAdminCredential(ctx, st, cfg, cred); err != nil {
		return nil, err
	}
	start, limit, err := pageBounds(page, size)
	if err != nil {
		return nil, err
	}
	return st.Escrow.Page(ctx, start, limit)
}

func (s *Service) GetUserHistoryPage(ctx context.Context, permit string, page, size int) ([]storage.HistoryRecord, error) {
	st := s.Stores()
	cfg, err := s.loadConfig(ctx, st)
	if err != nil {
		return nil, err
	}
	owner, err := s.resolvePermit(ctx, st, cfg, permit)
	if err != nil {
		return nil, err
	}
	start, limit, err := pageBounds(page, size)
	if err != nil {
		return nil, err
	}
	return st.History.Page(ctx, owner, start, limit)
}

func (s *Service) GetUserHistoryCount(ctx context.Context, permit string) (int, error) {
	st := s.Stores()
	cfg, err := s.loadConfig(ctx, st)
	if err != nil {
		return 0, err
	}
	owner, err := s.resolvePermit(ctx, st, cfg, permit)
	if err != nil {
		return 0, err
	}
	return st.History.Count(ctx, owner)
}
