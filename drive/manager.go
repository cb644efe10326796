package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weavedrop/weavedrop-go/network"
	"github.com/weavedrop/weavedrop-go/tx"
	"github.com/weavedrop/weavedrop-go/wallet"
)

// Manager owns the deployment's drive state and performs the one-time
// bootstrap.
type Manager struct {
	svc       network.Service
	wallet    *wallet.Wallet
	dataDir   string
	appName   string
	driveName string

	mu    sync.Mutex
	state *State
}

// Params holds the inputs for constructing a Manager.
type Params struct {
	Service   network.Service
	Wallet    *wallet.Wallet
	DataDir   string
	AppName   string
	DriveName string
}

// NewManager creates a drive manager. It loads any previously persisted
// state eagerly so State is usable before Bootstrap runs; a corrupt state
// file surfaces as an error here rather than at upload time.
func NewManager(p Params) (*Manager, error) {
	if p.Service == nil {
		return nil, fmt.Errorf("drive: nil network service")
	}
	if p.Wallet == nil {
		return nil, fmt.Errorf("drive: nil wallet")
	}
	if p.DataDir == "" {
		return nil, fmt.Errorf("drive: data directory not set")
	}

	st, err := LoadState(StatePath(p.DataDir))
	if err != nil {
		return nil, err
	}

	return &Manager{
		svc:       p.Service,
		wallet:    p.Wallet,
		dataDir:   p.DataDir,
		appName:   p.AppName,
		driveName: p.DriveName,
		state:     st,
	}, nil
}

// State returns the current drive state, or nil when the deployment has no
// drive (not yet bootstrapped, or bootstrap failed).
func (m *Manager) State() *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Bootstrap creates the drive if it does not exist yet and returns its
// state. Idempotent: a persisted state is reused unconditionally, and a
// second call performs no network submissions.
//
// The whole operation runs under an advisory file lock so two processes
// sharing a data directory cannot race the two-step creation and end up
// with two drives.
//
// On first run it submits a drive metadata record, then a root folder
// record (only if the drive submission succeeded), then persists the
// state. If either submission fails nothing is persisted and the error
// wraps ErrBootstrapFailed; the deployment is expected to continue
// without a drive.
func (m *Manager) Bootstrap(ctx context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, err := acquireLock(filepath.Join(m.dataDir, lockFile))
	if err != nil {
		return nil, fmt.Errorf("drive: %w", err)
	}
	defer releaseLock(lock)

	// Re-read under the lock: another process may have bootstrapped
	// between our constructor and now.
	statePath := StatePath(m.dataDir)
	st, err := LoadState(statePath)
	if err != nil {
		return nil, err
	}
	if st != nil {
		m.state = st
		return st, nil
	}

	driveID := uuid.NewString()
	rootFolderID := uuid.NewString()
	now := time.Now().UTC()

	driveTxID, err := m.submitDrive(ctx, driveID, rootFolderID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: drive record: %w", ErrBootstrapFailed, err)
	}

	folderTxID, err := m.submitRootFolder(ctx, driveID, rootFolderID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: root folder record: %w", ErrBootstrapFailed, err)
	}

	st = &State{
		DriveID:        driveID,
		RootFolderID:   rootFolderID,
		DriveTxID:      driveTxID,
		RootFolderTxID: folderTxID,
		CreatedAt:      now,
	}
	if err := SaveState(statePath, st); err != nil {
		return nil, err
	}

	m.state = st
	return st, nil
}

// submitDrive publishes the drive metadata record.
func (m *Manager) submitDrive(ctx context.Context, driveID, rootFolderID string, now time.Time) (string, error) {
	data, err := json.Marshal(map[string]string{
		"name":         m.driveName,
		"rootFolderId": rootFolderID,
	})
	if err != nil {
		return "", fmt.Errorf("drive: marshal drive metadata: %w", err)
	}

	tags := []tx.Tag{
		{Name: tx.TagAppName, Value: m.appName},
		{Name: tx.TagContentType, Value: "application/json"},
		{Name: tx.TagEntityType, Value: tx.EntityDrive},
		{Name: tx.TagDriveID, Value: driveID},
		{Name: tx.TagUnixTime, Value: strconv.FormatInt(now.Unix(), 10)},
	}

	return m.submit(ctx, data, tags)
}

// submitRootFolder publishes the root folder record.
func (m *Manager) submitRootFolder(ctx context.Context, driveID, rootFolderID string, now time.Time) (string, error) {
	data, err := json.Marshal(map[string]string{
		"name": m.driveName,
	})
	if err != nil {
		return "", fmt.Errorf("drive: marshal folder metadata: %w", err)
	}

	tags := []tx.Tag{
		{Name: tx.TagAppName, Value: m.appName},
		{Name: tx.TagContentType, Value: "application/json"},
		{Name: tx.TagEntityType, Value: tx.EntityFolder},
		{Name: tx.TagDriveID, Value: driveID},
		{Name: tx.TagFolderID, Value: rootFolderID},
		{Name: tx.TagUnixTime, Value: strconv.FormatInt(now.Unix(), 10)},
	}

	return m.submit(ctx, data, tags)
}

// submit builds, signs, and submits one metadata record.
func (m *Manager) submit(ctx context.Context, data []byte, tags []tx.Tag) (string, error) {
	rec, err := tx.NewRecord(&tx.RecordParams{
		Owner: m.wallet.Owner(),
		Data:  data,
		Tags:  tags,
	})
	if err != nil {
		return "", err
	}
	if err := rec.Sign(m.wallet.Key); err != nil {
		return "", err
	}
	return m.svc.Submit(ctx, rec)
}
