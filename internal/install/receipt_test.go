package install

import (
	"testing"

	"github.com/demo112/docling-mine/internal/manifest"
)

func TestReceiptRoundTrip(t *testing.T) {
	dir := t.TempDir()

	want := &manifest.Record{
		App:        AppName,
		Version:    "1.4.0",
		InstallDir: dir,
		Executable: dir + "/docling-converter",
		Files:      []string{dir + "/docling-converter"},
	}

	if _, err := WriteReceipt(dir, want); err != nil {
		t.Fatalf("WriteReceipt() = %v", err)
	}

	got, err := LoadReceipt(dir)
	if err != nil {
		t.Fatalf("LoadReceipt() = %v", err)
	}
	if got == nil {
		t.Fatal("LoadReceipt() = nil for written receipt")
	}
	if got.Version != want.Version || got.Executable != want.Executable {
		t.Errorf("receipt = %+v, want %+v", got, want)
	}
}

func TestLoadReceiptMissing(t *testing.T) {
	got, err := LoadReceipt(t.TempDir())
	if err != nil {
		t.Fatalf("LoadReceipt() = %v", err)
	}
	if got != nil {
		t.Errorf("LoadReceipt() = %+v, want nil", got)
	}
}
