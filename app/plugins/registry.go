// Package plugins registers the facility store backends selectable from
// configuration.
package plugins

import (
	"context"
	"io"

	"github.com/kilianp07/impianti/config"
	"github.com/kilianp07/impianti/core/factory"
	"github.com/kilianp07/impianti/core/model"
	corestore "github.com/kilianp07/impianti/core/store"
)

// Store is a readable, writable facility backend.
type Store interface {
	corestore.FacilityRepository
	corestore.FacilityWriter
	io.Closer
}

var stores = factory.NewRegistry[Store]()

// RegisterStore adds a store backend factory identified by name.
func RegisterStore(name string, f factory.Factory[Store]) error {
	return stores.Register(name, f)
}

// StoreBackends lists the registered backend names.
func StoreBackends() []string { return stores.Names() }

// OpenStore builds the backend selected by cfg.Backend.
func OpenStore(cfg config.StoreConfig) (Store, error) {
	return stores.Create(factory.ModuleConfig{
		Type: cfg.Backend,
		Conf: map[string]any{"path": cfg.Path, "dataset": cfg.Dataset},
	})
}

// Import writes every facility into s.
func Import(ctx context.Context, s corestore.FacilityWriter, facilities []model.Facility) error {
	for _, f := range facilities {
		if err := s.AddFacility(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

type memoryStore struct {
	*corestore.MemoryStore
}

func (memoryStore) Close() error { return nil }
