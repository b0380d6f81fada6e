// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/f21events/crownvote/auth"
)

// Status is the per-category vote state for one voter. A nil entry means
// the voter has not voted in that category.
type Status struct {
	KingVoted  *string `json:"king_voted"`
	QueenVoted *string `json:"queen_voted"`
}

// HintStore caches the last known Status on the device. Hints are a
// resilience measure only; the resolver always overwrites them with
// ledger state when the ledger is reachable.
type HintStore interface {
	Load() Status
	Save(Status) error
	Clear() error
}

// NopHints discards hints. Used on the server side, where there is no
// device-local storage to keep.
type NopHints struct{}

func (NopHints) Load() Status { return Status{} }

func (NopHints) Save(Status) error { return nil }

func (NopHints) Clear() error { return nil }

// DeviceFile persists the voter token and vote hints as a small JSON file,
// the local-storage equivalent for a non-browser client.
type DeviceFile struct {
	mu   sync.Mutex
	path string
}

type deviceState struct {
	VoterID    string  `json:"voter_id"`
	KingVoted  *string `json:"king_voted,omitempty"`
	QueenVoted *string `json:"queen_voted,omitempty"`
}

func NewDeviceFile(path string) *DeviceFile {
	return &DeviceFile{path: path}
}

// VoterID returns the device's voter token, generating and persisting one
// on first use. The token never expires.
func (d *DeviceFile) VoterID() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, err := d.read()
	if err != nil {
		return "", err
	}
	if st.VoterID != "" {
		return st.VoterID, nil
	}

	st.VoterID = auth.NewVoterID()
	if err := d.write(st); err != nil {
		return "", err
	}
	return st.VoterID, nil
}

func (d *DeviceFile) Load() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, err := d.read()
	if err != nil {
		return Status{}
	}
	return Status{KingVoted: st.KingVoted, QueenVoted: st.QueenVoted}
}

func (d *DeviceFile) Save(s Status) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, err := d.read()
	if err != nil {
		return err
	}
	st.KingVoted = s.KingVoted
	st.QueenVoted = s.QueenVoted
	return d.write(st)
}

// Clear drops the vote hints but keeps the voter token.
func (d *DeviceFile) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, err := d.read()
	if err != nil {
		return err
	}
	st.KingVoted = nil
	st.QueenVoted = nil
	return d.write(st)
}

func (d *DeviceFile) read() (deviceState, error) {
	var st deviceState
	data, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("failed to read device file: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		// Corrupt device file behaves like cleared local storage.
		return deviceState{}, nil
	}
	return st, nil
}

func (d *DeviceFile) write(st deviceState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode device file: %w", err)
	}
	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create device dir: %w", err)
		}
	}
	if err := os.WriteFile(d.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write device file: %w", err)
	}
	return nil
}
