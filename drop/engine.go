// Package drop is the orchestration layer tying the core together: it
// resolves the key policy, applies the encryption envelope, builds and
// submits the signed record, tags it into the drive hierarchy, and hands
// back the capability URL. CLI commands and the HTTP server are thin
// adapters over an Engine.
package drop

import (
	"context"
	"fmt"

	"github.com/weavedrop/weavedrop-go/cache"
	"github.com/weavedrop/weavedrop-go/config"
	"github.com/weavedrop/weavedrop-go/drive"
	"github.com/weavedrop/weavedrop-go/history"
	"github.com/weavedrop/weavedrop-go/network"
	"github.com/weavedrop/weavedrop-go/sharelink"
	"github.com/weavedrop/weavedrop-go/wallet"
)

// Engine is the shared business logic layer. All state is wired in
// explicitly at construction; there are no ambient file reads.
type Engine struct {
	Wallet  *wallet.Wallet
	Service network.Service
	Drive   *drive.Manager

	// Cache, when set, backs the retrieval path: Fetch checks it first
	// and backfills it after a gateway hit.
	Cache *cache.Store

	// History, when set, receives a best-effort log entry per upload.
	// Logging failures never fail an upload.
	History *history.Store

	cfg      config.Config
	driveKey []byte
}

// New wires an engine from its explicit dependencies. The drive key is
// derived here, once, from the configured drive secret; it is read-only
// afterwards and safe to share across concurrent uploads. An empty secret
// simply disables the "drive" encryption mode.
func New(cfg config.Config, w *wallet.Wallet, svc network.Service) (*Engine, error) {
	if w == nil {
		return nil, fmt.Errorf("drop: nil wallet")
	}
	if svc == nil {
		return nil, fmt.Errorf("drop: nil network service")
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	var driveKey []byte
	if cfg.DriveSecret != "" {
		key, err := drive.DeriveKey(cfg.DriveSecret)
		if err != nil {
			return nil, err
		}
		driveKey = key
	}

	mgr, err := drive.NewManager(drive.Params{
		Service:   svc,
		Wallet:    w,
		DataDir:   cfg.DataDir,
		AppName:   cfg.AppName,
		DriveName: cfg.DriveName,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		Wallet:   w,
		Service:  svc,
		Drive:    mgr,
		cfg:      cfg,
		driveKey: driveKey,
	}, nil
}

// Config returns the engine's deployment configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// DriveKey returns the deployment drive key, or nil when no drive secret
// is configured.
func (e *Engine) DriveKey() []byte { return e.driveKey }

// Bootstrap ensures the drive exists, creating it on first call. A failed
// bootstrap is soft: the error describes it, but the engine stays usable
// and subsequent uploads simply omit drive tags.
func (e *Engine) Bootstrap(ctx context.Context) (*drive.State, error) {
	return e.Drive.Bootstrap(ctx)
}

// Close releases the optional local stores.
func (e *Engine) Close() error {
	var firstErr error
	if e.Cache != nil {
		if err := e.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if e.History != nil {
		if err := e.History.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Fetch retrieves the stored bytes of a record, cache-first with gateway
// fallback and backfill.
func (e *Engine) Fetch(ctx context.Context, id string) ([]byte, error) {
	if e.Cache != nil {
		if data, err := e.Cache.Get(id); err == nil {
			return data, nil
		}
	}

	data, err := e.Service.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if e.Cache != nil {
		// Backfill is best effort; oversized entries are skipped.
		_ = e.Cache.Put(id, data)
	}
	return data, nil
}

// Compile-time check that Engine can serve as a share link fetcher.
var _ sharelink.Fetcher = (*Engine)(nil)

// OpenLink runs the client-side decrypt procedure for a share link against
// this engine's (cache-backed) retrieval path.
func (e *Engine) OpenLink(ctx context.Context, link string) (*sharelink.OpenResult, error) {
	return sharelink.Open(ctx, e, link)
}
