package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"studydash/internal/dash"
	"studydash/internal/export"
)

// ErrNoSnapshots is returned by PullSnapshot when the vault is empty.
var ErrNoSnapshots = errors.New("vault holds no snapshots")

// ExportTimetable writes the weekly timetable to path as an .xlsx workbook.
func (a *DashApp) ExportTimetable(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".studydash-export-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	first, last := a.cfg.TimetableHours()
	if err := export.TimetableXLSX(tmp, a.store.State(), first, last); err != nil {
		tmp.Close()
		return fmt.Errorf("exporting timetable: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming export: %w", err)
	}

	a.logger.Info("timetable exported", "path", path)
	return nil
}

// EncryptorNeedsPassphrase reports whether snapshot restore and key setup prompt for a
// passphrase.
func (a *DashApp) EncryptorNeedsPassphrase() bool {
	return a.encryptor.NeedsPassphrase()
}

// PushSnapshot encrypts the current state and stores it in the vault named vaultName
// (the first vault when empty) under name. An empty name uses the current UTC time.
// It returns the snapshot name.
func (a *DashApp) PushSnapshot(ctx context.Context, vaultName, name string) (string, error) {
	if !a.encryptor.IsConfigured() {
		return "", fmt.Errorf("encryption keys not set up: run `studydash config keys init`")
	}
	v, err := a.openVault(ctx, vaultName)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = a.Now().UTC().Format("20060102T150405Z")
	}

	var plain bytes.Buffer
	if err := a.store.ExportSnapshot(&plain); err != nil {
		return "", err
	}
	var sealed bytes.Buffer
	if err := a.encryptor.Encrypt(&plain, &sealed); err != nil {
		return "", fmt.Errorf("encrypting snapshot: %w", err)
	}

	size := int64(sealed.Len())
	if err := v.PutSnapshot(name, &sealed, size); err != nil {
		return "", fmt.Errorf("uploading snapshot: %w", err)
	}

	a.logger.Info("snapshot pushed", "name", name, "bytes", size)
	return name, nil
}

// ListSnapshots returns the snapshot names in the vault, oldest first.
func (a *DashApp) ListSnapshots(ctx context.Context, vaultName string) ([]string, error) {
	v, err := a.openVault(ctx, vaultName)
	if err != nil {
		return nil, err
	}
	return v.ListSnapshots()
}

// PullSnapshot replaces the whole state with the named snapshot, or the latest one when
// name is empty. The state is unchanged if the snapshot cannot be decrypted or decoded.
// It returns the restored snapshot and its name.
func (a *DashApp) PullSnapshot(ctx context.Context, vaultName, name, passphrase string) (dash.Snapshot, string, error) {
	v, err := a.openVault(ctx, vaultName)
	if err != nil {
		return dash.Snapshot{}, "", err
	}

	if name == "" {
		names, err := v.ListSnapshots()
		if err != nil {
			return dash.Snapshot{}, "", fmt.Errorf("listing snapshots: %w", err)
		}
		if len(names) == 0 {
			return dash.Snapshot{}, "", ErrNoSnapshots
		}
		name = names[len(names)-1]
	}

	var sealed bytes.Buffer
	if err := v.GetSnapshot(name, &sealed); err != nil {
		return dash.Snapshot{}, "", fmt.Errorf("downloading snapshot: %w", err)
	}

	dec, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return dash.Snapshot{}, "", fmt.Errorf("unlocking private key: %w", err)
	}
	var plain bytes.Buffer
	if err := dec.Decrypt(&sealed, &plain); err != nil {
		return dash.Snapshot{}, "", fmt.Errorf("decrypting snapshot: %w", err)
	}

	snap, err := a.store.ImportSnapshot(&plain)
	if err != nil {
		return dash.Snapshot{}, "", err
	}

	a.logger.Info("snapshot restored", "name", name, "created_at", snap.CreatedAt)
	return snap, name, nil
}
