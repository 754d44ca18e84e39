package engine

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"questvault/internal/storage"
)

// QuestSelector is the payload attached to a deposit notification.
type QuestSelector struct {
	QuestID *int64 `json:"quest_id"`
}

// EncodeSelector builds the deposit payload for questID.
func EncodeSelector(questID int64) []byte {
	b, _ := json.Marshal(QuestSelector{QuestID: &questID})
	return b
}

func decodeSelector(msg []byte) (int64, error) {
	if len(strings.TrimSpace(string(msg))) == 0 {
		return 0, newError(KindInvalidState, "no quest reference supplied")
	}
	var sel QuestSelector
	if err := json.Unmarshal(msg, &sel); err != nil {
		return 0, wrapError(KindInvalidState, err, "invalid quest reference")
	}
	if sel.QuestID == nil {
		return 0, newError(KindInvalidState, "no quest reference supplied")
	}
	return *sel.QuestID, nil
}

// DepositBatch records assets received by the custody collaborator on behalf
// of owner. call.Sender is the depositor and must be the configured custody
// collaborator.
func (s *Service) DepositBatch(ctx context.Context, call Call, owner string, assetIDs []string, msg []byte) (*Response, error) {
	return s.exec(ctx, call, "deposit_batch", func(st *storage.Stores, cfg *storage.Config, res *Response) error {
		if call.Sender != cfg.Custody.Address {
			return ErrUnauthorized
		}
		questID, err := decodeSelector(msg)
		if err != nil {
			return err
		}
		quest, err := st.Quests.Get(ctx, questID)
		if err != nil {
			return err
		}
		if quest == nil {
			return newError(KindNotFound, "quest %d not found", questID)
		}

		now := call.unix()
		if !joinable(quest, now) {
			return newError(KindInvalidState, "quest %d is not open for joining", questID)
		}
		if len(assetIDs) != quest.RequiredAssets {
			return newError(KindInvalidState, "quest %d requires %d assets, got %d", questID, quest.RequiredAssets, len(assetIDs))
		}
		if strings.TrimSpace(owner) == "" {
			return newError(KindInvalidState, "deposit owner is required")
		}

		coll, err := st.Escrow.Load(ctx, owner)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(assetIDs))
		for _, id := range assetIDs {
			if seen[id] {
				return newError(KindInvalidState, "asset %s appears twice in one deposit", id)
			}
			seen[id] = true
			holder, err := st.Escrow.HolderOf(ctx, id)
			if err != nil {
				return err
			}
			if holder != "" {
				return newError(KindInvalidState, "asset %s is already in escrow", id)
			}
			coll.Assets[id] = storage.StakedAsset{
				AssetID:   id,
				Owner:     owner,
				Depositor: call.Sender,
				QuestID:   questID,
				StakedAt:  now,
			}
		}

		if err := st.Escrow.Save(ctx, coll); err != nil {
			return err
		}
		if err := st.Quests.AddParticipants(ctx, questID, int64(len(assetIDs))); err != nil {
			return err
		}
		res.attr("quest_id", strconv.FormatInt(questID, 10))
		res.attr("deposited", strconv.Itoa(len(assetIDs)))
		return nil
	})
}

// ReturnAsset is the owner's forced return of one escrowed asset to the
// address that staked it.
func (s *Service) ReturnAsset(ctx context.Context, call Call, assetID, owner string) (*Response, error) {
	return s.exec(ctx, call, "return_asset", func(st *storage.Stores, cfg *storage.Config, res *Response) error {
		if err := requireOwner(cfg, call.Sender); err != nil {
			return err
		}
		coll, err := st.Escrow.Load(ctx, owner)
		if err != nil {
			return err
		}
		if len(coll.Assets) == 0 {
			return newError(KindInvalidState, "%s has no assets in escrow", owner)
		}
		entry, ok := coll.Assets[assetID]
		if !ok {
			return newError(KindNotFound, "asset %s is not in escrow for %s", assetID, owner)
		}
		delete(coll.Assets, assetID)
		if err := st.Escrow.Save(ctx, coll); err != nil {
			return err
		}

		e := s.effect(storage.EffectTransferAsset, cfg.Custody)
		e.Recipient = entry.Owner
		e.AssetID = entry.AssetID
		res.Effects = append(res.Effects, e)
		res.attr("returned", entry.AssetID)
		return nil
	})
}

// sortedAssets orders a collection by deposit time, then asset id.
func sortedAssets(c *storage.EscrowCollection) []storage.StakedAsset {
	out := make([]storage.StakedAsset, 0, len(c.Assets))
	for _, a := range c.Assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StakedAt != out[j].StakedAt {
			return out[i].StakedAt < out[j].StakedAt
		}
		return out[i].AssetID < out[j].AssetID
	})
	return out
}
