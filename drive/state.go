// Package drive implements the drive/folder convention that organizes
// uploaded records into a virtual hierarchy.
//
// A deployment has at most one drive: a metadata record plus a root folder
// record on the network, identified locally by a small JSON state file.
// Bootstrap is create-if-absent: the first successful run submits both
// records and persists the state; every later run reuses the persisted
// identifiers without re-validating them against the network.
package drive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateFile is the name of the persisted drive state inside the data
// directory.
const StateFile = "drive.json"

// lockFile guards bootstrap against concurrent processes.
const lockFile = "drive.lock"

// State identifies the deployment's drive. DriveID and RootFolderID are
// stable for the lifetime of the deployment once written.
type State struct {
	DriveID        string    `json:"driveId"`
	RootFolderID   string    `json:"rootFolderId"`
	DriveTxID      string    `json:"driveTxId"`
	RootFolderTxID string    `json:"rootFolderTxId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// StatePath returns the drive state file path inside dataDir.
func StatePath(dataDir string) string {
	return filepath.Join(dataDir, StateFile)
}

// LoadState reads a persisted drive state. A missing file returns
// (nil, nil): the deployment simply has no drive yet.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("drive: read state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if st.DriveID == "" || st.RootFolderID == "" {
		return nil, fmt.Errorf("%w: missing identifiers", ErrInvalidState)
	}
	return &st, nil
}

// SaveState persists the drive state, creating the parent directory as
// needed. Only complete states are ever written; a failed bootstrap
// persists nothing.
func SaveState(path string, st *State) error {
	if st == nil || st.DriveID == "" || st.RootFolderID == "" {
		return fmt.Errorf("%w: refusing to persist partial state", ErrInvalidState)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("drive: marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("drive: create state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("drive: write state: %w", err)
	}
	return nil
}
