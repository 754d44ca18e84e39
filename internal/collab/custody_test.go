package collab

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"questvault/internal/storage"
)

const snapshot = `
address: qv1custody
viewing_key: secret
assets:
  "17":
    - {category: XP, value: "40"}
    - {category: LEVEL, value: "2"}
`

func newFileCustody(t *testing.T, body string) *FileCustody {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return NewFileCustody(path)
}

func TestFileCustodyAssetTraits(t *testing.T) {
	fc := newFileCustody(t, snapshot)
	ctx := context.Background()
	custody := storage.Contract{Address: "qv1custody"}

	traits, err := fc.AssetTraits(ctx, custody, "secret", "17")
	if err != nil {
		t.Fatalf("AssetTraits: %v", err)
	}
	if len(traits) != 2 || traits[0] != (storage.Trait{Category: "XP", Value: "40"}) {
		t.Fatalf("traits=%+v", traits)
	}

	tests := []struct {
		name    string
		custody storage.Contract
		key     string
		asset   string
	}{
		{"unknown asset", custody, "secret", "18"},
		{"wrong key", custody, "guess", "17"},
		{"wrong custody", storage.Contract{Address: "qv1other"}, "secret", "17"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fc.AssetTraits(ctx, tt.custody, tt.key, tt.asset); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFileCustodyMissingFile(t *testing.T) {
	fc := NewFileCustody(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := fc.AssetTraits(context.Background(), storage.Contract{}, "", "1"); err == nil {
		t.Fatal("expected read error")
	}
}
