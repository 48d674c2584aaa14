package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/PalletCut/internal/model"
)

// DefaultProfilesPath returns the file holding custom G-code profiles, next
// to the app config.
func DefaultProfilesPath() string {
	return filepath.Join(DefaultConfigDir(), "profiles.json")
}

// SaveCustomProfiles saves custom profiles to a JSON file.
func SaveCustomProfiles(path string, profiles []model.GCodeProfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCustomProfiles loads custom profiles from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadCustomProfiles(path string) ([]model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.GCodeProfile{}, nil
		}
		return nil, err
	}

	var profiles []model.GCodeProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}
	for i := range profiles {
		profiles[i].IsBuiltIn = false
	}
	return profiles, nil
}

// LoadCustomProfilesInto reads the profiles at path and registers them in
// model.CustomProfiles. Entries named like a built-in profile are skipped.
func LoadCustomProfilesInto(path string) error {
	profiles, err := LoadCustomProfiles(path)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		_ = model.AddCustomProfile(p)
	}
	return nil
}

// ImportProfile imports a single profile from a JSON file.
func ImportProfile(path string) (model.GCodeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GCodeProfile{}, err
	}

	var profile model.GCodeProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.GCodeProfile{}, err
	}

	profile.IsBuiltIn = false
	if profile.Name == "" {
		return model.GCodeProfile{}, errors.New("imported profile has no name")
	}
	return profile, nil
}

// ExportProfile writes a single profile to a JSON file that ImportProfile
// can read back.
func ExportProfile(path string, profile model.GCodeProfile) error {
	profile.IsBuiltIn = false
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
