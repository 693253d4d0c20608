// Package index persists the local record of shares this instance created.
// The index is independent of the remote store: losing it does not make
// remote shares unreachable, and a remote failure never mutates it.
package index

import (
	"context"

	"github.com/okorolev/cipherdrop/internal/models"
)

// Repository is the local share index contract.
//
// Insert fails on a duplicate share id. GetByID returns (nil, nil) for an
// unknown id. DeleteByID of an unknown id is a no-op success, so deletes
// can race with cleanup sweeps. GetAll orders by creation time, most
// recent first.
type Repository interface {
	Insert(ctx context.Context, m *models.ShareMetadata) error
	GetByID(ctx context.Context, id string) (*models.ShareMetadata, error)
	GetAll(ctx context.Context) ([]models.ShareMetadata, error)
	DeleteByID(ctx context.Context, id string) error

	// GetMeta/SetMeta access the small key-value side table used for
	// per-install state such as the client id. GetMeta returns (nil, nil)
	// for an unknown key.
	GetMeta(ctx context.Context, key string) ([]byte, error)
	SetMeta(ctx context.Context, key string, value []byte) error
}
