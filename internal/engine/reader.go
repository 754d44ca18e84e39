package engine

import (
	"context"

	"questvault/internal/storage"
)

// AssetReader reads an asset's current attributes from the custody
// collaborator, authenticating with the viewing key the engine registered
// there at setup.
type AssetReader interface {
	AssetTraits(ctx context.Context, custody storage.Contract, viewingKey string, assetID string) ([]storage.Trait, error)
}
