package plugins

import (
	"context"
	"fmt"

	"github.com/kilianp07/impianti/config"
	"github.com/kilianp07/impianti/core/factory"
	corestore "github.com/kilianp07/impianti/core/store"
	infrastore "github.com/kilianp07/impianti/infra/store"
)

func init() {
	must(RegisterStore("memory", func(conf map[string]any) (Store, error) {
		var sc config.StoreConfig
		if err := factory.Decode(conf, &sc); err != nil {
			return nil, err
		}
		ms, err := corestore.NewMemoryStore()
		if err != nil {
			return nil, err
		}
		s := memoryStore{ms}
		if sc.Dataset != "" {
			if err := importDataset(s, sc.Dataset); err != nil {
				return nil, err
			}
		}
		return s, nil
	}))
	must(RegisterStore("file", func(conf map[string]any) (Store, error) {
		var sc config.StoreConfig
		if err := factory.Decode(conf, &sc); err != nil {
			return nil, err
		}
		if sc.Dataset == "" {
			return nil, fmt.Errorf("file store requires a dataset")
		}
		facilities, err := infrastore.LoadFile(sc.Dataset)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		ms, err := corestore.NewMemoryStore(facilities...)
		if err != nil {
			return nil, err
		}
		return memoryStore{ms}, nil
	}))
	must(RegisterStore("sqlite", func(conf map[string]any) (Store, error) {
		var sc config.StoreConfig
		if err := factory.Decode(conf, &sc); err != nil {
			return nil, err
		}
		s, err := infrastore.NewSQLiteStore(sc.Path)
		if err != nil {
			return nil, err
		}
		if sc.Dataset != "" {
			if err := importDataset(s, sc.Dataset); err != nil {
				_ = s.Close()
				return nil, err
			}
		}
		return s, nil
	}))
}

func importDataset(s Store, path string) error {
	facilities, err := infrastore.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	return Import(context.Background(), s, facilities)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
