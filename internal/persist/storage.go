package persist

import (
	"context"
	"fmt"

	"wildfire-ca/internal/config"
)

// Storage defines the interface for snapshot persistence.
type Storage interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context, name string) (*Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// Open returns the store selected by cfg. The "none" driver yields a nil
// Storage and no error.
func Open(ctx context.Context, cfg config.StoreConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "json":
		store, err := NewJSONStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		store, err := NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
