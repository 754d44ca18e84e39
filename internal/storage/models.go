package storage

// Contract references an external collaborator.
type Contract struct {
	Address  string `json:"address" yaml:"address"`
	CodeHash string `json:"code_hash" yaml:"code_hash"`
}

type Config struct {
	Owner             string
	SelfAddress       string
	Custody           Contract
	CustodyViewingKey string
	Reward            Contract
	RewardViewingKey  string
	LevelCap          int
	CredentialKey     []byte
	CreatedAt         int64
}

type Level struct {
	Level       int   `json:"level" yaml:"level"`
	XPThreshold int64 `json:"xp_threshold" yaml:"xp_threshold"`
}

// Trait is an asset attribute; it doubles as a quest bonus condition.
type Trait struct {
	Category string `json:"trait_category" yaml:"category"`
	Value    string `json:"trait_value" yaml:"value"`
}

type Quest struct {
	ID              int64
	Title           string
	Description     string
	JoinWindow      int64 // seconds after StartTime during which deposits are accepted
	StakingDuration int64
	RequiredAssets  int
	StartTime       int64
	CreatedAt       int64
	XPReward        int64
	BaseReward      uint64
	BonusReward     uint64
	BonusTraits     []Trait
	Participants    int64
}

type StakedAsset struct {
	AssetID   string
	Owner     string
	Depositor string
	QuestID   int64
	StakedAt  int64
}

// EscrowCollection is one owner's escrowed assets keyed by asset id.
type EscrowCollection struct {
	Owner  string
	Assets map[string]StakedAsset
}

type HistoryRecord struct {
	Seq       int64
	Owner     string
	AssetID   string
	Depositor string
	QuestID   int64
	StakedAt  int64
	ClaimedAt int64
	Reward    uint64
	XPAwarded int64
}

// ViewerInfo is a stored viewing credential: the address it belongs to and
// the keyed hash of its secret.
type ViewerInfo struct {
	Address string
	KeyHash string
}

type EffectKind string

const (
	EffectTransferAsset         EffectKind = "transfer_asset"
	EffectBatchTransferAssets   EffectKind = "batch_transfer_assets"
	EffectUpdateAssetAttributes EffectKind = "update_asset_attributes"
	EffectTransferReward        EffectKind = "transfer_reward"
	EffectRegisterReceive       EffectKind = "register_receive"
	EffectSetViewingKey         EffectKind = "set_viewing_key"
)

// Effect is an outbound request queued for a collaborator.
type Effect struct {
	ID         string     `json:"id"`
	Kind       EffectKind `json:"kind"`
	Contract   Contract   `json:"contract"`
	Recipient  string     `json:"recipient,omitempty"`
	AssetID    string     `json:"asset_id,omitempty"`
	AssetIDs   []string   `json:"asset_ids,omitempty"`
	Amount     uint64     `json:"amount,omitempty"`
	Traits     []Trait    `json:"traits,omitempty"`
	ViewingKey string     `json:"viewing_key,omitempty"`
}

type OutboxStatus string

const (
	OutboxQueued    OutboxStatus = "queued"
	OutboxDelivered OutboxStatus = "delivered"
	OutboxFailed    OutboxStatus = "failed"
)

type OutboxEntry struct {
	Seq       int64
	Effect    Effect
	Status    OutboxStatus
	Reason    string
	CreatedAt int64
	UpdatedAt int64
}
