package ports

import (
	"context"

	"github.com/bnema/frontdesk/internal/domain"
)

// InventorySource supplies the seed for the station and equipment
// registries. It is read once at startup.
type InventorySource interface {
	Load(ctx context.Context) (domain.Inventory, error)
}

type InventoryWriter interface {
	Save(ctx context.Context, inventory domain.Inventory) error
}
