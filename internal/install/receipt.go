package install

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/demo112/docling-mine/internal/fsutil"
	"github.com/demo112/docling-mine/internal/manifest"
)

// ReceiptName is the per-install metadata file dropped next to the
// executable. It mirrors the manifest record so the install dir is
// self-describing even without the manifest database.
const ReceiptName = "receipt.json"

// ReceiptPath returns the receipt location for an install dir.
func ReceiptPath(installDir string) string {
	return filepath.Join(installDir, ReceiptName)
}

// WriteReceipt serializes rec into the install dir and returns the receipt
// path.
func WriteReceipt(installDir string, rec *manifest.Record) (string, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal receipt: %w", err)
	}
	path := ReceiptPath(installDir)
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}

// LoadReceipt reads the receipt from an install dir. Returns nil without
// error when no receipt exists.
func LoadReceipt(installDir string) (*manifest.Record, error) {
	data, err := os.ReadFile(ReceiptPath(installDir)) // #nosec G304 - path inside the install dir
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read receipt: %w", err)
	}

	var rec manifest.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse receipt: %w", err)
	}
	return &rec, nil
}
