package engine

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"

	"questvault/internal/storage"
)

const credentialKeyInfo = "questvault viewing credentials v1"

type SetupInput struct {
	SelfAddress string
	Entropy     string
	Custody     storage.Contract
	Reward      storage.Contract
	LevelCap    int
	Levels      []storage.Level
}

// Setup creates the configuration once. The caller becomes the owner.
func (s *Service) Setup(ctx context.Context, call Call, in SetupInput) (*Response, error) {
	res := &Response{}
	err := storage.InTx(ctx, s.db, func(st *storage.Stores) error {
		existing, err := st.Config.Get(ctx)
		if err != nil {
			return err
		}
		if existing != nil {
			return newError(KindInvalidState, "engine is already configured")
		}
		if err := validateSetup(call, in); err != nil {
			return err
		}

		credKey, err := deriveCredentialKey(in.Entropy, in.SelfAddress)
		if err != nil {
			return err
		}
		viewingKey := deriveViewingKey(in.Entropy)

		cfg := storage.Config{
			Owner:             call.Sender,
			SelfAddress:       in.SelfAddress,
			Custody:           in.Custody,
			CustodyViewingKey: viewingKey,
			Reward:            in.Reward,
			RewardViewingKey:  viewingKey,
			LevelCap:          in.LevelCap,
			CredentialKey:     credKey,
			CreatedAt:         call.unix(),
		}
		if err := st.Config.Insert(ctx, cfg); err != nil {
			return err
		}
		if err := st.Config.InsertLevels(ctx, in.Levels); err != nil {
			return err
		}

		register := s.effect(storage.EffectRegisterReceive, in.Custody)
		register.Recipient = in.SelfAddress
		custodyKey := s.effect(storage.EffectSetViewingKey, in.Custody)
		custodyKey.ViewingKey = viewingKey
		rewardKey := s.effect(storage.EffectSetViewingKey, in.Reward)
		rewardKey.ViewingKey = viewingKey
		res.Effects = append(res.Effects, register, custodyKey, rewardKey)
		res.attr("owner", call.Sender)

		return s.enqueue(ctx, st, call, res)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("setup by %s: cap=%d levels=%s", call.Sender, in.LevelCap, describeLevels(in.Levels))
	return res, nil
}

func validateSetup(call Call, in SetupInput) error {
	if strings.TrimSpace(call.Sender) == "" {
		return newError(KindInvalidState, "owner identity is required")
	}
	if strings.TrimSpace(in.SelfAddress) == "" {
		return newError(KindInvalidState, "engine address is required")
	}
	if strings.TrimSpace(in.Entropy) == "" {
		return newError(KindInvalidState, "entropy is required")
	}
	if strings.TrimSpace(in.Custody.Address) == "" || strings.TrimSpace(in.Reward.Address) == "" {
		return newError(KindInvalidState, "custody and reward collaborators are required")
	}
	if err := ValidateLevels(in.Levels); err != nil {
		return err
	}
	if in.LevelCap < in.Levels[0].Level {
		return newError(KindInvalidState, "level cap %d is below the lowest level %d", in.LevelCap, in.Levels[0].Level)
	}
	return nil
}

// deriveViewingKey is the key the engine registers with its collaborators:
// base64(sha256(base64(entropy))).
func deriveViewingKey(entropy string) string {
	seed := sha256.Sum256([]byte(base64.StdEncoding.EncodeToString([]byte(entropy))))
	return base64.StdEncoding.EncodeToString(seed[:])
}

func deriveCredentialKey(entropy, selfAddress string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(entropy), []byte(selfAddress), []byte(credentialKeyInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive credential key: %w", err)
	}
	return key, nil
}
