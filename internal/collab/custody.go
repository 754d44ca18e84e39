// Package collab holds local stand-ins for the collaborators the engine
// reads from.
package collab

import (
	"context"
	"crypto/subtle"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"questvault/internal/storage"
)

// FileCustody answers attribute queries from a YAML snapshot of the custody
// collaborator's assets. The file is re-read on every query.
//
//	address: qv1custody
//	viewing_key: "..."
//	assets:
//	  "17":
//	    - {category: XP, value: "40"}
//	    - {category: LEVEL, value: "2"}
type FileCustody struct {
	Path string
}

type custodySnapshot struct {
	Address    string                     `yaml:"address"`
	ViewingKey string                     `yaml:"viewing_key"`
	Assets     map[string][]storage.Trait `yaml:"assets"`
}

func NewFileCustody(path string) *FileCustody {
	return &FileCustody{Path: path}
}

func (f *FileCustody) load() (*custodySnapshot, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("custody: read %s: %w", f.Path, err)
	}
	var snap custodySnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("custody: decode %s: %w", f.Path, err)
	}
	return &snap, nil
}

// AssetTraits returns the public attributes of assetID. A snapshot that
// names an address or viewing key refuses queries that do not match them.
func (f *FileCustody) AssetTraits(_ context.Context, custody storage.Contract, viewingKey string, assetID string) ([]storage.Trait, error) {
	if f == nil || strings.TrimSpace(f.Path) == "" {
		return nil, fmt.Errorf("custody: no asset file configured")
	}
	snap, err := f.load()
	if err != nil {
		return nil, err
	}
	if snap.Address != "" && snap.Address != custody.Address {
		return nil, fmt.Errorf("custody: snapshot is for %s, not %s", snap.Address, custody.Address)
	}
	if snap.ViewingKey != "" && subtle.ConstantTimeCompare([]byte(snap.ViewingKey), []byte(viewingKey)) != 1 {
		return nil, fmt.Errorf("custody: viewing key rejected")
	}
	traits, ok := snap.Assets[assetID]
	if !ok {
		return nil, fmt.Errorf("custody: asset %s not found", assetID)
	}
	return append([]storage.Trait(nil), traits...), nil
}
