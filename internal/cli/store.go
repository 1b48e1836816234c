package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/and161185/signup-wizard/internal/config"
	"github.com/and161185/signup-wizard/internal/crypto/sealbox"
	"github.com/and161185/signup-wizard/internal/storage"
	"github.com/and161185/signup-wizard/internal/storage/file"
	"github.com/and161185/signup-wizard/internal/storage/memory"
	"github.com/and161185/signup-wizard/internal/storage/sealed"
	"github.com/and161185/signup-wizard/internal/storage/sqlite"
)

// OpenStore builds the draft store selected by cfg. The returned close func is
// never nil.
func OpenStore(ctx context.Context, cfg config.Wizard) (storage.Store, func() error, error) {
	noop := func() error { return nil }

	var (
		st      storage.Store
		closeFn = noop
	)
	switch cfg.Storage {
	case config.StorageMemory:
		// nothing outlives the process, sealing adds nothing
		return memory.New(), noop, nil
	case config.StorageFile:
		st = file.New(filepath.Join(cfg.DataDir, "drafts"))
	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, filepath.Join(cfg.DataDir, "drafts.db"))
		if err != nil {
			return nil, noop, err
		}
		st, closeFn = db, db.Close
	default:
		return nil, noop, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	if !cfg.Seal {
		return st, closeFn, nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		_ = closeFn()
		return nil, noop, fmt.Errorf("mkdir %s: %w", cfg.DataDir, err)
	}
	key, err := sealbox.MasterKey(cfg.DataDir, cfg.Passphrase)
	if err != nil {
		_ = closeFn()
		return nil, noop, fmt.Errorf("seal key: %w", err)
	}
	return sealed.New(st, key), closeFn, nil
}
