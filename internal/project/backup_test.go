package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PalletCut/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultFeedRate = 2000.0
	cfg.Theme = "dark"
	profiles := []model.GCodeProfile{{Name: "Shop", IsBuiltIn: true}}

	if err := ExportAllData(path, cfg, profiles); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.DefaultFeedRate != 2000.0 || backup.Config.Theme != "dark" {
		t.Errorf("config did not round trip: %+v", backup.Config)
	}
	if len(backup.Profiles) != 1 || backup.Profiles[0].IsBuiltIn {
		t.Errorf("expected one custom profile, got %+v", backup.Profiles)
	}
}

func TestImportAllDataErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ImportAllData(filepath.Join(dir, "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}

	for name, content := range map[string]string{
		"bad.json":    "{not json}",
		"nover.json":  `{"config":{}}`,
		"future.json": `{"version":"9.0.0","config":{}}`,
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ImportAllData(path); err == nil {
			t.Errorf("expected error for %s", name)
		}
	}
}

func TestCustomProfilesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")

	missing, err := LoadCustomProfiles(path)
	if err != nil || len(missing) != 0 {
		t.Fatalf("expected empty profiles for missing file, got %v (%v)", missing, err)
	}

	profiles := []model.GCodeProfile{
		model.NewCustomProfile("Router A"),
		{Name: "Grbl", IsBuiltIn: true},
	}
	if err := SaveCustomProfiles(path, profiles); err != nil {
		t.Fatalf("SaveCustomProfiles failed: %v", err)
	}

	model.CustomProfiles = nil
	defer func() { model.CustomProfiles = nil }()
	if err := LoadCustomProfilesInto(path); err != nil {
		t.Fatalf("LoadCustomProfilesInto failed: %v", err)
	}
	// The entry shadowing a built-in profile is dropped.
	if len(model.CustomProfiles) != 1 || model.CustomProfiles[0].Name != "Router A" {
		t.Errorf("unexpected custom profiles %+v", model.CustomProfiles)
	}
}

func TestImportProfile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	noName := filepath.Join(dir, "noname.json")
	_ = os.WriteFile(good, []byte(`{"name":"Shared","is_built_in":true}`), 0644)
	_ = os.WriteFile(noName, []byte(`{"description":"x"}`), 0644)

	p, err := ImportProfile(good)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}
	if p.Name != "Shared" || p.IsBuiltIn {
		t.Errorf("unexpected profile %+v", p)
	}
	if _, err := ImportProfile(noName); err == nil {
		t.Error("expected error for profile without a name")
	}
}

func TestExportProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "router.json")

	p := model.NewCustomProfile("Router B")
	p.DecimalPlaces = 4
	p.IsBuiltIn = true
	if err := ExportProfile(path, p); err != nil {
		t.Fatalf("ExportProfile failed: %v", err)
	}

	got, err := ImportProfile(path)
	if err != nil {
		t.Fatalf("ImportProfile failed: %v", err)
	}
	if got.Name != "Router B" || got.DecimalPlaces != 4 || got.IsBuiltIn {
		t.Errorf("unexpected profile %+v", got)
	}
}
