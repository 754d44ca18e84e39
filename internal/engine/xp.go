package engine

import (
	"fmt"
	"math"
	"math/bits"
	"sort"
	"strconv"
	"strings"

	"questvault/internal/storage"
)

// Trait categories that carry an asset's progression.
const (
	TraitXP    = "XP"
	TraitLevel = "LEVEL"
)

// ValidateLevels checks that levels and thresholds both strictly increase.
func ValidateLevels(levels []storage.Level) error {
	if len(levels) == 0 {
		return newError(KindInvalidState, "level table is empty")
	}
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if cur.Level <= prev.Level {
			return newError(KindInvalidState, "level %d does not increase over level %d", cur.Level, prev.Level)
		}
		if cur.XPThreshold <= prev.XPThreshold {
			return newError(KindInvalidState, "threshold for level %d does not increase", cur.Level)
		}
	}
	return nil
}

// LevelForXP returns the highest level whose threshold is at or below xp.
// ok is false when xp is below the first threshold.
func LevelForXP(levels []storage.Level, xp int64) (level int, ok bool) {
	// First threshold strictly greater than xp; the level just below it wins.
	idx := sort.Search(len(levels), func(i int) bool { return levels[i].XPThreshold > xp })
	if idx == 0 {
		return 0, false
	}
	return levels[idx-1].Level, true
}

// NextLevel applies newXP to an asset currently at current. The result never
// decreases and never climbs past levelCap; an asset already at the cap keeps
// its level.
func NextLevel(levels []storage.Level, levelCap, current int, newXP int64) int {
	if current >= levelCap {
		return current
	}
	l, ok := LevelForXP(levels, newXP)
	if !ok || l < current {
		return current
	}
	if l > levelCap {
		return levelCap
	}
	return l
}

type progress struct {
	XP    int64
	Level int
}

func readProgress(assetID string, traits []storage.Trait) (progress, error) {
	var (
		p               progress
		hasXP, hasLevel bool
	)
	for _, t := range traits {
		switch strings.ToUpper(strings.TrimSpace(t.Category)) {
		case TraitXP:
			v, err := strconv.ParseInt(strings.TrimSpace(t.Value), 10, 64)
			if err != nil || v < 0 {
				return progress{}, newError(KindExternalData, "asset %s has malformed xp %q", assetID, t.Value)
			}
			p.XP, hasXP = v, true
		case TraitLevel:
			v, err := strconv.Atoi(strings.TrimSpace(t.Value))
			if err != nil || v < 0 {
				return progress{}, newError(KindExternalData, "asset %s has malformed level %q", assetID, t.Value)
			}
			p.Level, hasLevel = v, true
		}
	}
	if !hasXP || !hasLevel {
		return progress{}, newError(KindExternalData, "asset %s is missing xp or level attributes", assetID)
	}
	return p, nil
}

// withProgress returns a copy of traits with xp and level replaced and every
// other attribute unchanged.
func withProgress(traits []storage.Trait, p progress) []storage.Trait {
	out := make([]storage.Trait, len(traits))
	for i, t := range traits {
		switch strings.ToUpper(strings.TrimSpace(t.Category)) {
		case TraitXP:
			t.Value = strconv.FormatInt(p.XP, 10)
		case TraitLevel:
			t.Value = strconv.Itoa(p.Level)
		}
		out[i] = t
	}
	return out
}

// MeetsBonus reports whether any single bonus condition matches one of the
// asset's traits. Matching more than one condition still counts once.
func MeetsBonus(traits []storage.Trait, conditions []storage.Trait) bool {
	for _, cond := range conditions {
		for _, t := range traits {
			if t.Category == cond.Category && t.Value == cond.Value {
				return true
			}
		}
	}
	return false
}

func addXP(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, newError(KindInvalidState, "xp overflow")
	}
	return a + b, nil
}

func addAmount(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, newError(KindInvalidState, "reward overflow")
	}
	return sum, nil
}

func describeLevels(levels []storage.Level) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = fmt.Sprintf("%d@%d", l.Level, l.XPThreshold)
	}
	return strings.Join(parts, ",")
}
