package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"questvault/internal/storage"
)

const (
	testOwner   = "qv1owner"
	testCustody = "qv1custody"
	testReward  = "qv1reward"
	testSelf    = "qv1engine"
	testAlice   = "qv1alice"
	testBob     = "qv1bob"
)

var testLevels = []storage.Level{
	{Level: 1, XPThreshold: 0},
	{Level: 2, XPThreshold: 10},
	{Level: 3, XPThreshold: 30},
	{Level: 4, XPThreshold: 60},
	{Level: 5, XPThreshold: 100},
}

type fakeAssets struct {
	traits map[string][]storage.Trait
}

func (f *fakeAssets) AssetTraits(_ context.Context, custody storage.Contract, viewingKey string, assetID string) ([]storage.Trait, error) {
	if custody.Address != testCustody || viewingKey == "" {
		return nil, fmt.Errorf("custody %s refused viewer", custody.Address)
	}
	t, ok := f.traits[assetID]
	if !ok {
		return nil, fmt.Errorf("asset %s unknown", assetID)
	}
	return append([]storage.Trait(nil), t...), nil
}

func (f *fakeAssets) set(assetID string, xp int64, level int, extra ...storage.Trait) {
	traits := []storage.Trait{
		{Category: "Background", Value: "Forest"},
		{Category: TraitXP, Value: strconv.FormatInt(xp, 10)},
		{Category: TraitLevel, Value: strconv.Itoa(level)},
	}
	f.traits[assetID] = append(traits, extra...)
}

func at(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func call(sender string, sec int64) Call { return Call{Sender: sender, Now: at(sec)} }

func newTestService(t *testing.T) (*Service, *fakeAssets) {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	assets := &fakeAssets{traits: map[string][]storage.Trait{}}
	n := 0
	svc := NewService(db, assets,
		WithIDGenerator(func() string { n++; return fmt.Sprintf("fx-%d", n) }),
		WithClock(func() time.Time { return at(1_000) }),
	)
	_, err = svc.Setup(ctx, call(testOwner, 0), SetupInput{
		SelfAddress: testSelf,
		Entropy:     "wolfpack",
		Custody:     storage.Contract{Address: testCustody, CodeHash: "c0de"},
		Reward:      storage.Contract{Address: testReward, CodeHash: "5e11"},
		LevelCap:    4,
		Levels:      testLevels,
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return svc, assets
}

func startQuest(t *testing.T, svc *Service, q storage.Quest) {
	t.Helper()
	if q.Title == "" {
		q.Title = "Quest " + strconv.FormatInt(q.ID, 10)
	}
	if _, err := svc.StartQuest(context.Background(), call(testOwner, 0), q); err != nil {
		t.Fatalf("start quest %d: %v", q.ID, err)
	}
}

func deposit(t *testing.T, svc *Service, owner string, questID int64, sec int64, ids ...string) {
	t.Helper()
	if _, err := svc.DepositBatch(context.Background(), call(testCustody, sec), owner, ids, EncodeSelector(questID)); err != nil {
		t.Fatalf("deposit %v: %v", ids, err)
	}
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if KindOf(err) != kind {
		t.Fatalf("error kind=%q (%v), want %q", KindOf(err), err, kind)
	}
}

func outboxLen(t *testing.T, svc *Service) int {
	t.Helper()
	entries, err := svc.ListOutbox(context.Background(), "")
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	return len(entries)
}

func TestSetupRunsOnceAndRegistersWithCollaborators(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entries, err := svc.ListOutbox(ctx, storage.OutboxQueued)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("setup effects=%d, want 3", len(entries))
	}
	if entries[0].Effect.Kind != storage.EffectRegisterReceive || entries[0].Effect.Contract.Address != testCustody {
		t.Fatalf("first effect=%+v, want register_receive on custody", entries[0].Effect)
	}
	if entries[2].Effect.Kind != storage.EffectSetViewingKey || entries[2].Effect.Contract.Address != testReward {
		t.Fatalf("third effect=%+v, want set_viewing_key on reward", entries[2].Effect)
	}
	if entries[1].Effect.ViewingKey != deriveViewingKey("wolfpack") {
		t.Fatalf("custody viewing key not derived from entropy")
	}

	_, err = svc.Setup(ctx, call(testAlice, 5), SetupInput{
		SelfAddress: testSelf,
		Entropy:     "again",
		Custody:     storage.Contract{Address: testCustody},
		Reward:      storage.Contract{Address: testReward},
		LevelCap:    4,
		Levels:      testLevels,
	})
	wantKind(t, err, KindInvalidState)
}

func TestStartQuestOwnerOnlyUniqueAndStamped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	q := storage.Quest{ID: 1, Title: "Hunt", JoinWindow: 10, StakingDuration: 10, RequiredAssets: 1, CreatedAt: 999, Participants: 42}

	_, err := svc.StartQuest(ctx, call(testAlice, 50), q)
	wantKind(t, err, KindUnauthorized)

	if _, err := svc.StartQuest(ctx, call(testOwner, 50), q); err != nil {
		t.Fatalf("start quest: %v", err)
	}
	_, err = svc.StartQuest(ctx, call(testOwner, 60), q)
	wantKind(t, err, KindInvalidState)

	quests, err := svc.ListQuests(ctx)
	if err != nil {
		t.Fatalf("list quests: %v", err)
	}
	if len(quests) != 1 {
		t.Fatalf("quests=%d, want 1", len(quests))
	}
	if quests[0].CreatedAt != 50 {
		t.Fatalf("created_at=%d, want 50 (caller supplied 999)", quests[0].CreatedAt)
	}
	if quests[0].Participants != 0 {
		t.Fatalf("participants=%d, want 0", quests[0].Participants)
	}
}

func TestDepositJoinWindowBoundaries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, StartTime: 100, JoinWindow: 50, StakingDuration: 10, RequiredAssets: 1})

	cases := []struct {
		sec  int64
		id   string
		open bool
	}{
		{99, "a", false},
		{100, "b", true},
		{149, "c", true},
		{150, "d", false},
	}
	for _, tc := range cases {
		_, err := svc.DepositBatch(ctx, call(testCustody, tc.sec), testAlice, []string{tc.id}, EncodeSelector(1))
		if tc.open && err != nil {
			t.Fatalf("deposit at %d: %v", tc.sec, err)
		}
		if !tc.open {
			wantKind(t, err, KindInvalidState)
		}
	}

	quests, err := svc.ListQuests(ctx)
	if err != nil {
		t.Fatalf("list quests: %v", err)
	}
	if quests[0].Participants != 2 {
		t.Fatalf("participants=%d, want 2", quests[0].Participants)
	}
}

func TestDepositRequiresExactAssetCount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 100, RequiredAssets: 2})

	for _, ids := range [][]string{{"1"}, {"1", "2", "3"}} {
		_, err := svc.DepositBatch(ctx, call(testCustody, 1), testAlice, ids, EncodeSelector(1))
		wantKind(t, err, KindInvalidState)
	}
	deposit(t, svc, testAlice, 1, 1, "1", "2")
}

func TestDepositRejectsBadReferences(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 100, RequiredAssets: 1})

	_, err := svc.DepositBatch(ctx, call(testCustody, 1), testAlice, []string{"1"}, nil)
	wantKind(t, err, KindInvalidState)

	_, err = svc.DepositBatch(ctx, call(testCustody, 1), testAlice, []string{"1"}, []byte(`{}`))
	wantKind(t, err, KindInvalidState)

	_, err = svc.DepositBatch(ctx, call(testCustody, 1), testAlice, []string{"1"}, EncodeSelector(9))
	wantKind(t, err, KindNotFound)

	_, err = svc.DepositBatch(ctx, call(testAlice, 1), testAlice, []string{"1"}, EncodeSelector(1))
	wantKind(t, err, KindUnauthorized)
}

func TestAssetIsNeverInTwoCollections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 100, RequiredAssets: 1})
	startQuest(t, svc, storage.Quest{ID: 2, JoinWindow: 100, RequiredAssets: 2})

	deposit(t, svc, testAlice, 1, 1, "7")

	_, err := svc.DepositBatch(ctx, call(testCustody, 2), testBob, []string{"7"}, EncodeSelector(1))
	wantKind(t, err, KindInvalidState)

	_, err = svc.DepositBatch(ctx, call(testCustody, 2), testBob, []string{"8", "8"}, EncodeSelector(2))
	wantKind(t, err, KindInvalidState)

	bob, err := svc.Stores().Escrow.Load(ctx, testBob)
	if err != nil {
		t.Fatalf("load bob: %v", err)
	}
	if len(bob.Assets) != 0 {
		t.Fatalf("bob holds %d assets, want 0", len(bob.Assets))
	}
	holder, err := svc.Stores().Escrow.HolderOf(ctx, "7")
	if err != nil {
		t.Fatalf("holder: %v", err)
	}
	if holder != testAlice {
		t.Fatalf("holder=%q, want alice", holder)
	}
}

func TestClaimAfterStakingPeriod(t *testing.T) {
	svc, assets := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 10, StakingDuration: 100, RequiredAssets: 2, XPReward: 10, BaseReward: 5})
	assets.set("1", 0, 1)
	assets.set("2", 12, 2)
	deposit(t, svc, testAlice, 1, 0, "1", "2")
	before := outboxLen(t, svc)

	_, err := svc.Claim(ctx, call(testAlice, 99), []string{"1", "2"})
	wantKind(t, err, KindInvalidState)
	if got := outboxLen(t, svc); got != before {
		t.Fatalf("outbox grew to %d on a rejected claim, want %d", got, before)
	}

	res, err := svc.Claim(ctx, call(testAlice, 100), []string{"1", "2"})
	if err != nil {
		t.Fatalf("claim at 100: %v", err)
	}
	if total, _ := res.Attr("reward_total"); total != "10" {
		t.Fatalf("reward_total=%s, want 10", total)
	}

	if len(res.Effects) != 4 {
		t.Fatalf("effects=%d, want 4 (2 updates, batch transfer, reward)", len(res.Effects))
	}
	wantProgress := map[string]progress{"1": {XP: 10, Level: 2}, "2": {XP: 22, Level: 2}}
	for _, e := range res.Effects[:2] {
		if e.Kind != storage.EffectUpdateAssetAttributes {
			t.Fatalf("effect kind=%s, want update_asset_attributes", e.Kind)
		}
		got, err := readProgress(e.AssetID, e.Traits)
		if err != nil {
			t.Fatalf("read updated traits: %v", err)
		}
		if got != wantProgress[e.AssetID] {
			t.Fatalf("asset %s progress=%+v, want %+v", e.AssetID, got, wantProgress[e.AssetID])
		}
		if e.Traits[0] != (storage.Trait{Category: "Background", Value: "Forest"}) {
			t.Fatalf("asset %s lost unrelated traits: %+v", e.AssetID, e.Traits)
		}
	}
	batch := res.Effects[2]
	if batch.Kind != storage.EffectBatchTransferAssets || batch.Recipient != testAlice || len(batch.AssetIDs) != 2 {
		t.Fatalf("batch effect=%+v", batch)
	}
	pay := res.Effects[3]
	if pay.Kind != storage.EffectTransferReward || pay.Amount != 10 || pay.Contract.Address != testReward {
		t.Fatalf("reward effect=%+v", pay)
	}

	coll, err := svc.Stores().Escrow.Load(ctx, testAlice)
	if err != nil {
		t.Fatalf("load escrow: %v", err)
	}
	if len(coll.Assets) != 0 {
		t.Fatalf("escrow still holds %d assets", len(coll.Assets))
	}
	records, err := svc.Stores().History.Page(ctx, testAlice, 0, 10)
	if err != nil {
		t.Fatalf("history page: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("history=%d, want 2", len(records))
	}
	for _, r := range records {
		if r.Reward != 5 || r.XPAwarded != 10 || r.StakedAt != 0 || r.ClaimedAt != 100 {
			t.Fatalf("history record=%+v", r)
		}
	}
}

func TestClaimFailureLeavesNoTrace(t *testing.T) {
	svc, assets := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 10, StakingDuration: 5, RequiredAssets: 2, XPReward: 1, BaseReward: 1})
	assets.set("1", 0, 1)
	assets.traits["2"] = []storage.Trait{{Category: TraitXP, Value: "lots"}, {Category: TraitLevel, Value: "1"}}
	deposit(t, svc, testAlice, 1, 0, "1", "2")
	before := outboxLen(t, svc)

	_, err := svc.Claim(ctx, call(testAlice, 10), []string{"1", "2"})
	wantKind(t, err, KindExternalData)

	coll, err := svc.Stores().Escrow.Load(ctx, testAlice)
	if err != nil {
		t.Fatalf("load escrow: %v", err)
	}
	if len(coll.Assets) != 2 {
		t.Fatalf("escrow=%d after failed claim, want 2", len(coll.Assets))
	}
	n, err := svc.Stores().History.Count(ctx, testAlice)
	if err != nil {
		t.Fatalf("history count: %v", err)
	}
	if n != 0 {
		t.Fatalf("history=%d after failed claim, want 0", n)
	}
	if got := outboxLen(t, svc); got != before {
		t.Fatalf("outbox=%d after failed claim, want %d", got, before)
	}
}

func TestClaimUnknownOrForeignAsset(t *testing.T) {
	svc, assets := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 10, RequiredAssets: 1})
	assets.set("1", 0, 1)
	deposit(t, svc, testAlice, 1, 0, "1")

	_, err := svc.Claim(ctx, call(testBob, 10), []string{"1"})
	wantKind(t, err, KindNotFound)

	_, err = svc.Claim(ctx, call(testAlice, 10), []string{"1", "1"})
	wantKind(t, err, KindNotFound)

	_, err = svc.Claim(ctx, call(testAlice, 10), nil)
	wantKind(t, err, KindInvalidState)
}

func TestClaimBonusCountsOncePerAsset(t *testing.T) {
	svc, assets := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{
		ID: 1, JoinWindow: 10, StakingDuration: 1, RequiredAssets: 3, XPReward: 1,
		BaseReward: 100, BonusReward: 7,
		BonusTraits: []storage.Trait{{Category: "Fur", Value: "Silver"}, {Category: "Eyes", Value: "Gold"}},
	})
	assets.set("1", 0, 1, storage.Trait{Category: "Fur", Value: "Silver"}, storage.Trait{Category: "Eyes", Value: "Gold"})
	assets.set("2", 0, 1, storage.Trait{Category: "Eyes", Value: "Gold"})
	assets.set("3", 0, 1, storage.Trait{Category: "Fur", Value: "Brown"})
	deposit(t, svc, testAlice, 1, 0, "1", "2", "3")

	res, err := svc.Claim(ctx, call(testAlice, 1), []string{"1", "2", "3"})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if total, _ := res.Attr("reward_total"); total != strconv.Itoa(100*3+7*2) {
		t.Fatalf("reward_total=%s, want %d", total, 100*3+7*2)
	}

	records, err := svc.Stores().History.Page(ctx, testAlice, 0, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	want := map[string]uint64{"1": 107, "2": 107, "3": 100}
	for _, r := range records {
		if r.Reward != want[r.AssetID] {
			t.Fatalf("asset %s reward=%d, want %d", r.AssetID, r.Reward, want[r.AssetID])
		}
	}
}

func TestClaimWithoutRewardQueuesNoPayment(t *testing.T) {
	svc, assets := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 10, RequiredAssets: 1, XPReward: 5})
	assets.set("1", 58, 3)
	deposit(t, svc, testAlice, 1, 0, "1")

	res, err := svc.Claim(ctx, call(testAlice, 0), []string{"1"})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	for _, e := range res.Effects {
		if e.Kind == storage.EffectTransferReward {
			t.Fatalf("unexpected reward transfer for zero total")
		}
	}
	got, err := readProgress("1", res.Effects[0].Traits)
	if err != nil {
		t.Fatalf("read progress: %v", err)
	}
	if got.Level != 4 || got.XP != 63 {
		t.Fatalf("progress=%+v, want xp 63 level 4", got)
	}
}

func TestClaimLevelCapAndNoDecrease(t *testing.T) {
	svc, assets := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 10, RequiredAssets: 3, XPReward: 10})
	assets.set("capped", 0, 4)   // already at cap with little xp
	assets.set("ahead", 0, 3)    // level ahead of its xp
	assets.set("soaring", 95, 2) // crosses the last threshold
	deposit(t, svc, testAlice, 1, 0, "capped", "ahead", "soaring")

	res, err := svc.Claim(ctx, call(testAlice, 0), []string{"capped", "ahead", "soaring"})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	want := map[string]int{"capped": 4, "ahead": 3, "soaring": 4}
	for _, e := range res.Effects {
		if e.Kind != storage.EffectUpdateAssetAttributes {
			continue
		}
		p, err := readProgress(e.AssetID, e.Traits)
		if err != nil {
			t.Fatalf("read progress: %v", err)
		}
		if p.Level != want[e.AssetID] {
			t.Fatalf("asset %s level=%d, want %d", e.AssetID, p.Level, want[e.AssetID])
		}
	}
}

func TestClaimFailsWhenQuestIsGone(t *testing.T) {
	svc, assets := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 10, RequiredAssets: 1})
	assets.set("1", 0, 1)
	deposit(t, svc, testAlice, 1, 0, "1")

	db := svc.db
	if _, err := db.ExecContext(ctx, `DELETE FROM quests WHERE id = 1`); err != nil {
		t.Fatalf("delete quest: %v", err)
	}
	_, err := svc.Claim(ctx, call(testAlice, 5), []string{"1"})
	wantKind(t, err, KindNotFound)
}

func TestReturnAsset(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 10, RequiredAssets: 2})

	_, err := svc.ReturnAsset(ctx, call(testOwner, 1), "1", testAlice)
	wantKind(t, err, KindInvalidState)

	deposit(t, svc, testAlice, 1, 0, "1", "2")

	_, err = svc.ReturnAsset(ctx, call(testAlice, 1), "1", testAlice)
	wantKind(t, err, KindUnauthorized)

	_, err = svc.ReturnAsset(ctx, call(testOwner, 1), "9", testAlice)
	wantKind(t, err, KindNotFound)

	res, err := svc.ReturnAsset(ctx, call(testOwner, 1), "1", testAlice)
	if err != nil {
		t.Fatalf("return asset: %v", err)
	}
	if len(res.Effects) != 1 {
		t.Fatalf("effects=%d, want 1", len(res.Effects))
	}
	e := res.Effects[0]
	if e.Kind != storage.EffectTransferAsset || e.Recipient != testAlice || e.AssetID != "1" || e.Contract.Address != testCustody {
		t.Fatalf("effect=%+v", e)
	}
	coll, err := svc.Stores().Escrow.Load(ctx, testAlice)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := coll.Assets["1"]; ok || len(coll.Assets) != 1 {
		t.Fatalf("escrow after return=%v", coll.Assets)
	}
}

func TestSendRewardBackIsOwnerOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SendRewardBack(ctx, call(testAlice, 1), 10, testAlice)
	wantKind(t, err, KindUnauthorized)

	res, err := svc.SendRewardBack(ctx, call(testOwner, 1), 10, testBob)
	if err != nil {
		t.Fatalf("send reward back: %v", err)
	}
	e := res.Effects[0]
	if e.Kind != storage.EffectTransferReward || e.Amount != 10 || e.Recipient != testBob {
		t.Fatalf("effect=%+v", e)
	}
}

func TestReconcileEffect(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.SendRewardBack(ctx, call(testOwner, 1), 10, testBob)
	if err != nil {
		t.Fatalf("send reward back: %v", err)
	}
	id := res.Effects[0].ID

	_, err = svc.ReconcileEffect(ctx, call(testAlice, 2), id, false, "nope")
	wantKind(t, err, KindUnauthorized)
	_, err = svc.ReconcileEffect(ctx, call(testOwner, 2), "missing", true, "")
	wantKind(t, err, KindNotFound)

	if _, err := svc.ReconcileEffect(ctx, call(testOwner, 2), id, false, "insufficient balance"); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	_, err = svc.ReconcileEffect(ctx, call(testOwner, 3), id, true, "")
	wantKind(t, err, KindInvalidState)

	failed, err := svc.ListOutbox(ctx, storage.OutboxFailed)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(failed) != 1 || failed[0].Reason != "insufficient balance" {
		t.Fatalf("failed entries=%+v", failed)
	}
}

func TestCommandsRequireSetup(t *testing.T) {
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "bare.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	svc := NewService(db, &fakeAssets{})

	_, err = svc.StartQuest(context.Background(), call(testOwner, 0), storage.Quest{ID: 1, Title: "x", RequiredAssets: 1})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err=%v, want invalid state", err)
	}
}

func TestClaimWithHugeStakingDurationStaysLocked(t *testing.T) {
	svc, assets := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, JoinWindow: 10, StakingDuration: math.MaxInt64, RequiredAssets: 1, XPReward: 1, BaseReward: 5})
	assets.set("1", 0, 1)
	deposit(t, svc, testAlice, 1, 5, "1")

	_, err := svc.Claim(ctx, call(testAlice, 6), []string{"1"})
	wantKind(t, err, KindInvalidState)

	_, err = svc.Claim(ctx, call(testAlice, 1<<62), []string{"1"})
	wantKind(t, err, KindInvalidState)
}

func TestDepositWithHugeJoinWindow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	startQuest(t, svc, storage.Quest{ID: 1, StartTime: 5, JoinWindow: math.MaxInt64, RequiredAssets: 1})

	deposit(t, svc, testAlice, 1, 10, "a")
	deposit(t, svc, testAlice, 1, 1<<62, "b")

	_, err := svc.DepositBatch(ctx, call(testCustody, 4), testAlice, []string{"c"}, EncodeSelector(1))
	wantKind(t, err, KindInvalidState)
}

func TestStakingElapsedBoundaries(t *testing.T) {
	tests := []struct {
		stakedAt, duration, now int64
		want                    bool
	}{
		{0, 100, 99, false},
		{0, 100, 100, true},
		{5, math.MaxInt64, 6, false},
		{5, 0, 4, false},
		{5, 0, 5, true},
	}
	for _, tt := range tests {
		if got := stakingElapsed(tt.stakedAt, tt.duration, tt.now); got != tt.want {
			t.Fatalf("stakingElapsed(%d, %d, %d)=%v, want %v", tt.stakedAt, tt.duration, tt.now, got, tt.want)
		}
	}
}

func TestStartQuestRejectsNegativeStart(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.StartQuest(context.Background(), call(testOwner, 0), storage.Quest{ID: 1, Title: "x", StartTime: -1, RequiredAssets: 1})
	wantKind(t, err, KindInvalidState)
}
