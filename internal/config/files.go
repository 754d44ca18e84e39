package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"questvault/internal/engine"
	"questvault/internal/storage"
)

// SetupFile is the YAML document consumed by `qv setup`.
type SetupFile struct {
	SelfAddress string           `yaml:"self_address"`
	Entropy     string           `yaml:"entropy"`
	Custody     storage.Contract `yaml:"custody"`
	Reward      storage.Contract `yaml:"reward"`
	LevelCap    int              `yaml:"level_cap"`
	Levels      []LevelEntry     `yaml:"levels"`
}

type LevelEntry struct {
	Level       int   `yaml:"level"`
	XPThreshold int64 `yaml:"xp"`
}

// QuestFile is the YAML document consumed by `qv quest start`. Reward
// amounts are strings so values above 2^63 survive decoding.
type QuestFile struct {
	ID              int64           `yaml:"id"`
	Title           string          `yaml:"title"`
	Description     string          `yaml:"description"`
	StartTime       int64           `yaml:"start_time"`
	JoinWindow      int64           `yaml:"join_window"`
	StakingDuration int64           `yaml:"staking_duration"`
	RequiredAssets  int             `yaml:"required_assets"`
	XPReward        int64           `yaml:"xp_reward"`
	BaseReward      string          `yaml:"base_reward"`
	BonusReward     string          `yaml:"bonus_reward"`
	BonusTraits     []storage.Trait `yaml:"bonus_traits"`
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("config: %s is empty", path)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

// LoadSetupFile reads a setup document. selfDefault fills a missing
// self_address.
func LoadSetupFile(path, selfDefault string) (engine.SetupInput, error) {
	var f SetupFile
	if err := readYAML(path, &f); err != nil {
		return engine.SetupInput{}, err
	}
	if strings.TrimSpace(f.SelfAddress) == "" {
		f.SelfAddress = selfDefault
	}
	in := engine.SetupInput{
		SelfAddress: f.SelfAddress,
		Entropy:     f.Entropy,
		Custody:     f.Custody,
		Reward:      f.Reward,
		LevelCap:    f.LevelCap,
	}
	for _, l := range f.Levels {
		in.Levels = append(in.Levels, storage.Level{Level: l.Level, XPThreshold: l.XPThreshold})
	}
	return in, nil
}

// LoadQuestFile reads a quest definition.
func LoadQuestFile(path string) (storage.Quest, error) {
	var f QuestFile
	if err := readYAML(path, &f); err != nil {
		return storage.Quest{}, err
	}
	base, err := parseAmount("base_reward", f.BaseReward)
	if err != nil {
		return storage.Quest{}, err
	}
	bonus, err := parseAmount("bonus_reward", f.BonusReward)
	if err != nil {
		return storage.Quest{}, err
	}
	return storage.Quest{
		ID:              f.ID,
		Title:           f.Title,
		Description:     f.Description,
		StartTime:       f.StartTime,
		JoinWindow:      f.JoinWindow,
		StakingDuration: f.StakingDuration,
		RequiredAssets:  f.RequiredAssets,
		XPReward:        f.XPReward,
		BaseReward:      base,
		BonusReward:     bonus,
		BonusTraits:     f.BonusTraits,
	}, nil
}

func parseAmount(field, raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := engine.ParseAmount(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", field, err)
	}
	return v, nil
}
