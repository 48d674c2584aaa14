package export

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestExportPlacards_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "placards.pdf")
	if err := ExportPlacards(path, buildTestResults()); err != nil {
		t.Fatalf("ExportPlacards returned error: %v", err)
	}
	assertFile(t, path, 500)
}

func TestExportPlacards_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportPlacards(path, nil); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestPlacardInfoFor(t *testing.T) {
	r := buildTestResults()[0]
	info := PlacardInfoFor(r)

	if info.Pallet != "10x10" || info.Box != "5x5" {
		t.Errorf("unexpected dimensions %q %q", info.Pallet, info.Box)
	}
	if info.Count != 4 || info.Rotated != 1 || !info.Optimal {
		t.Errorf("unexpected counts %+v", info)
	}
	if info.Efficiency != 100 {
		t.Errorf("Efficiency = %v, want 100", info.Efficiency)
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatal(err)
	}
	var decoded PlacardInfo
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded != info {
		t.Errorf("QR payload did not survive JSON: %+v", decoded)
	}
}
