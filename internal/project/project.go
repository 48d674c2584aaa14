package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/PalletCut/internal/model"
)

// FileExtension is the extension of saved projects.
const FileExtension = ".palletcut"

// Save writes a project as indented JSON.
func Save(path string, p model.Project) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a project written by Save.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	p := model.NewProject()
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if p.Problems == nil {
		p.Problems = []model.Problem{}
	}
	return p, nil
}

// ExportGCode writes a generated program to path.
func ExportGCode(path, code string) error {
	return os.WriteFile(path, []byte(code), 0644)
}
