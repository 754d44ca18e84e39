package engine

import (
	"context"
	"strings"

	"questvault/internal/storage"
)

// Claim releases the caller's escrowed assets once their staking period has
// elapsed, levels them up, and pays the quest rewards. Either every asset is
// claimed or the call fails with no effect at all.
func (s *Service) Claim(ctx context.Context, call Call, assetIDs []string) (*Response, error) {
	return s.exec(ctx, call, "claim", func(st *storage.Stores, cfg *storage.Config, res *Response) error {
		if len(assetIDs) == 0 {
			return newError(KindInvalidState, "no assets to claim")
		}
		levels, err := st.Config.Levels(ctx)
		if err != nil {
			return err
		}
		coll, err := st.Escrow.Load(ctx, call.Sender)
		if err != nil {
			return err
		}

		now := call.unix()
		quests := map[int64]*storage.Quest{}
		claimed := make([]string, 0, len(assetIDs))
		var total uint64

		for _, id := range assetIDs {
			entry, ok := coll.Assets[id]
			if !ok || entry.Owner != call.Sender {
				return newError(KindNotFound, "asset %s is not staked by %s", id, call.Sender)
			}
			delete(coll.Assets, id)

			traits, err := s.assets.AssetTraits(ctx, cfg.Custody, cfg.CustodyViewingKey, id)
			if err != nil {
				return wrapError(KindExternalData, err, "read attributes of asset %s", id)
			}
			before, err := readProgress(id, traits)
			if err != nil {
				return err
			}

			quest, err := s.questForEntry(ctx, st, quests, entry.QuestID)
			if err != nil {
				return err
			}
			if !stakingElapsed(entry.StakedAt, quest.StakingDuration, now) {
				return newError(KindInvalidState, "staking period not elapsed for asset %s", id)
			}

			after := progress{}
			if after.XP, err = addXP(before.XP, quest.XPReward); err != nil {
				return err
			}
			after.Level = NextLevel(levels, cfg.LevelCap, before.Level, after.XP)

			reward := quest.BaseReward
			if MeetsBonus(traits, quest.BonusTraits) {
				if reward, err = addAmount(reward, quest.BonusReward); err != nil {
					return err
				}
			}
			if total, err = addAmount(total, reward); err != nil {
				return err
			}

			// The record carries this asset's reward, not the running total.
			if _, err := st.History.Append(ctx, storage.HistoryRecord{
				Owner:     call.Sender,
				AssetID:   id,
				Depositor: entry.Depositor,
				QuestID:   entry.QuestID,
				StakedAt:  entry.StakedAt,
				ClaimedAt: now,
				Reward:    reward,
				XPAwarded: quest.XPReward,
			}); err != nil {
				return err
			}

			update := s.effect(storage.EffectUpdateAssetAttributes, cfg.Custody)
			update.AssetID = id
			update.Traits = withProgress(traits, after)
			res.Effects = append(res.Effects, update)
			claimed = append(claimed, id)
		}

		back := s.effect(storage.EffectBatchTransferAssets, cfg.Custody)
		back.Recipient = call.Sender
		back.AssetIDs = claimed
		res.Effects = append(res.Effects, back)

		if total > 0 {
			pay := s.effect(storage.EffectTransferReward, cfg.Reward)
			pay.Recipient = call.Sender
			pay.Amount = total
			res.Effects = append(res.Effects, pay)
		}

		if err := st.Escrow.Save(ctx, coll); err != nil {
			return err
		}
		res.attr("reward_total", formatUint(total))
		res.attr("claimed", strings.Join(claimed, ","))
		return nil
	})
}

// stakingElapsed reports whether duration has passed since stakedAt. It
// compares by subtraction so a huge duration cannot wrap around.
func stakingElapsed(stakedAt, duration, now int64) bool {
	return now >= stakedAt && now-stakedAt >= duration
}

// SendRewardBack lets the owner move reward tokens held by the engine to any
// address. It has no ledger effect.
func (s *Service) SendRewardBack(ctx context.Context, call Call, amount uint64, address string) (*Response, error) {
	return s.exec(ctx, call, "send_reward_back", func(st *storage.Stores, cfg *storage.Config, res *Response) error {
		if err := requireOwner(cfg, call.Sender); err != nil {
			return err
		}
		if strings.TrimSpace(address) == "" {
			return newError(KindInvalidState, "recipient address is required")
		}
		pay := s.effect(storage.EffectTransferReward, cfg.Reward)
		pay.Recipient = address
		pay.Amount = amount
		res.Effects = append(res.Effects, pay)
		res.attr("amount", formatUint(amount))
		return nil
	})
}
