package model

import (
	"testing"
)

func TestAllProfilesIncludesBuiltInAndCustom(t *testing.T) {
	CustomProfiles = nil

	builtInCount := len(GCodeProfiles)
	if len(AllProfiles()) != builtInCount {
		t.Errorf("expected %d profiles with no custom, got %d", builtInCount, len(AllProfiles()))
	}

	CustomProfiles = []GCodeProfile{{Name: "Custom1"}}
	defer func() { CustomProfiles = nil }()

	if len(AllProfiles()) != builtInCount+1 {
		t.Errorf("expected %d profiles with 1 custom, got %d", builtInCount+1, len(AllProfiles()))
	}
}

func TestGetProfileFallsBackToGeneric(t *testing.T) {
	p := GetProfile("NonExistent")
	if p.Name != "Generic" {
		t.Errorf("expected Generic fallback, got %s", p.Name)
	}
}

func TestAddCustomProfile(t *testing.T) {
	CustomProfiles = nil
	defer func() { CustomProfiles = nil }()

	if err := AddCustomProfile(GCodeProfile{Name: "Grbl"}); err == nil {
		t.Fatal("expected error when adding profile with built-in name")
	}

	_ = AddCustomProfile(GCodeProfile{Name: "Mine", Description: "Version 1"})
	_ = AddCustomProfile(GCodeProfile{Name: "Mine", Description: "Version 2", IsBuiltIn: true})
	if len(CustomProfiles) != 1 {
		t.Fatalf("expected 1 custom profile after update, got %d", len(CustomProfiles))
	}
	if CustomProfiles[0].Description != "Version 2" || CustomProfiles[0].IsBuiltIn {
		t.Errorf("unexpected custom profile %+v", CustomProfiles[0])
	}
	if GetProfile("Mine").Description != "Version 2" {
		t.Error("GetProfile did not find the custom profile")
	}
}

func TestRemoveCustomProfile(t *testing.T) {
	CustomProfiles = []GCodeProfile{{Name: "ToRemove"}}
	defer func() { CustomProfiles = nil }()

	if err := RemoveCustomProfile("Grbl"); err == nil {
		t.Error("expected error when removing built-in profile")
	}
	if err := RemoveCustomProfile("ToRemove"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(CustomProfiles) != 0 {
		t.Error("profile was not removed")
	}
	if err := RemoveCustomProfile("ToRemove"); err == nil {
		t.Error("expected error when removing non-existent profile")
	}
}

func TestSaveCustomProfileAs(t *testing.T) {
	CustomProfiles = []GCodeProfile{{Name: "Shop"}, {Name: "Other", Description: "keep"}}
	defer func() { CustomProfiles = nil }()

	if err := SaveCustomProfileAs("Shop", GCodeProfile{Name: "Grbl"}); err == nil {
		t.Error("expected error renaming onto a built-in profile")
	}
	if err := SaveCustomProfileAs("Shop", GCodeProfile{Name: "Other"}); err == nil {
		t.Error("expected error renaming onto an existing custom profile")
	}
	if err := SaveCustomProfileAs("Missing", GCodeProfile{Name: "New"}); err == nil {
		t.Error("expected error renaming a missing profile")
	}
	if len(CustomProfiles) != 2 || CustomProfiles[0].Name != "Shop" || CustomProfiles[1].Description != "keep" {
		t.Fatalf("failed renames must leave profiles untouched, got %+v", CustomProfiles)
	}

	if err := SaveCustomProfileAs("Shop", GCodeProfile{Name: "Workshop", Description: "renamed"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if len(CustomProfiles) != 2 || CustomProfiles[0].Name != "Workshop" || CustomProfiles[0].Description != "renamed" {
		t.Errorf("unexpected profiles after rename %+v", CustomProfiles)
	}

	if err := SaveCustomProfileAs("Workshop", GCodeProfile{Name: "Workshop", Description: "edited"}); err != nil {
		t.Fatalf("save in place: %v", err)
	}
	if CustomProfiles[0].Description != "edited" {
		t.Errorf("expected in-place update, got %+v", CustomProfiles[0])
	}
}

func TestNewCustomProfile(t *testing.T) {
	p := NewCustomProfile("Test Custom")
	if p.Name != "Test Custom" || p.IsBuiltIn {
		t.Errorf("unexpected profile %+v", p)
	}
	if p.RapidMove != "G0" {
		t.Errorf("expected G0 rapid move from Generic, got %s", p.RapidMove)
	}
	p.StartCode[0] = "X"
	if GetProfile("Generic").StartCode[0] == "X" {
		t.Error("custom profile shares StartCode with Generic")
	}
}

func TestBuiltInProfilesMarkedCorrectly(t *testing.T) {
	for _, p := range GCodeProfiles {
		if !p.IsBuiltIn {
			t.Errorf("built-in profile %s should have IsBuiltIn=true", p.Name)
		}
	}
}

func TestBoxGeometry(t *testing.T) {
	a := Box{X1: 0, Y1: 0, X2: 4, Y2: 7}
	b := Box{X1: 4, Y1: 0, X2: 8, Y2: 7, Rotated: true}
	c := Box{X1: 3, Y1: 6, X2: 10, Y2: 10}

	if a.Width() != 4 || a.Height() != 7 || a.Area() != 28 {
		t.Errorf("unexpected geometry for %+v", a)
	}
	if a.Overlaps(b) {
		t.Error("boxes sharing an edge must not overlap")
	}
	if !a.Overlaps(c) || !b.Overlaps(c) {
		t.Error("expected overlap with c")
	}
}

func TestResultEfficiency(t *testing.T) {
	r := Result{
		Problem:    NewProblem("p", 10, 10, 5, 5),
		Count:      3,
		UpperBound: 4,
		Boxes: []Box{
			{X1: 0, Y1: 0, X2: 5, Y2: 5},
			{X1: 5, Y1: 0, X2: 10, Y2: 5},
			{X1: 0, Y1: 5, X2: 5, Y2: 10},
		},
	}
	if r.UsedArea() != 75 || r.TotalArea() != 100 {
		t.Errorf("unexpected areas %d / %d", r.UsedArea(), r.TotalArea())
	}
	if r.Efficiency() != 75.0 {
		t.Errorf("expected 75%% efficiency, got %f", r.Efficiency())
	}
	if r.Gap() != 1 {
		t.Errorf("expected gap 1, got %d", r.Gap())
	}
	if (Result{}).Efficiency() != 0 {
		t.Error("empty result should have zero efficiency")
	}
}

func TestNewProblem(t *testing.T) {
	p := NewProblem("euro", 1200, 800, 400, 300)
	if len(p.ID) != 8 {
		t.Errorf("expected 8 character id, got %q", p.ID)
	}
	if p.String() != "1200x800/400x300" {
		t.Errorf("unexpected String() %s", p.String())
	}
}

func TestProjectSetResult(t *testing.T) {
	proj := NewProject()
	p := NewProblem("a", 10, 10, 5, 5)
	proj.Problems = append(proj.Problems, p)

	proj.SetResult(Result{Problem: p, Count: 3})
	proj.SetResult(Result{Problem: p, Count: 4})

	if len(proj.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(proj.Results))
	}
	r, ok := proj.ResultFor(p.ID)
	if !ok || r.Count != 4 {
		t.Errorf("expected stored count 4, got %+v", r)
	}
	if _, ok := proj.ResultFor("missing"); ok {
		t.Error("unexpected result for unknown id")
	}
}
