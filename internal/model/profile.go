package model

import "fmt"

// GCodeProfile defines a post-processor configuration for different CNC controllers.
type GCodeProfile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Units       string `json:"units"` // "mm" or "inches"
	IsBuiltIn   bool   `json:"is_built_in"`

	// Startup codes
	StartCode    []string `json:"start_code"`
	SpindleStart string   `json:"spindle_start"` // e.g. "M3 S%d"
	SpindleStop  string   `json:"spindle_stop"`
	HomeAll      string   `json:"home_all"`

	// Motion
	AbsoluteMode string `json:"absolute_mode"`
	FeedMode     string `json:"feed_mode"`
	RapidMove    string `json:"rapid_move"`
	FeedMove     string `json:"feed_move"`

	EndCode []string `json:"end_code"` // "[SafeZ]" is replaced with the safe height

	CommentPrefix string `json:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix"` // e.g. ")" for Fanuc style

	DecimalPlaces int `json:"decimal_places"`
}

// Built-in GCode profiles
var GCodeProfiles = []GCodeProfile{
	{
		Name:          "Grbl",
		Description:   "Grbl 1.1 controllers",
		Units:         "mm",
		IsBuiltIn:     true,
		StartCode:     []string{"G90", "G21", "G17"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		HomeAll:       "$H",
		AbsoluteMode:  "G90",
		FeedMode:      "G94",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M5", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
	{
		Name:          "LinuxCNC",
		Description:   "LinuxCNC, parenthesised comments",
		Units:         "mm",
		IsBuiltIn:     true,
		StartCode:     []string{"G90", "G21", "G17", "G94"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		HomeAll:       "G28 X0 Y0 Z0",
		AbsoluteMode:  "G90",
		FeedMode:      "G94",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G28 X0 Y0", "M5", "M30"},
		CommentPrefix: "(",
		CommentSuffix: ")",
		DecimalPlaces: 4,
	},
	{
		Name:          "Generic",
		Description:   "Generic standard GCode",
		Units:         "mm",
		IsBuiltIn:     true,
		StartCode:     []string{"G90", "G21"},
		SpindleStart:  "M3 S%d",
		SpindleStop:   "M5",
		HomeAll:       "G28 X0 Y0 Z0",
		AbsoluteMode:  "G90",
		FeedMode:      "G94",
		RapidMove:     "G0",
		FeedMove:      "G1",
		EndCode:       []string{"G0 Z[SafeZ]", "G0 X0 Y0", "M5", "M2"},
		CommentPrefix: ";",
		DecimalPlaces: 3,
	},
}

// CustomProfiles holds user-defined profiles loaded at startup.
var CustomProfiles []GCodeProfile

// AllProfiles returns the built-in profiles followed by the custom ones.
func AllProfiles() []GCodeProfile {
	all := make([]GCodeProfile, 0, len(GCodeProfiles)+len(CustomProfiles))
	all = append(all, GCodeProfiles...)
	return append(all, CustomProfiles...)
}

// GetProfile returns a GCode profile by name, or the Generic profile if not found.
func GetProfile(name string) GCodeProfile {
	for _, p := range AllProfiles() {
		if p.Name == name {
			return p
		}
	}
	return GCodeProfiles[len(GCodeProfiles)-1]
}

// GetProfileNames returns a list of all available profile names.
func GetProfileNames() []string {
	var names []string
	for _, p := range AllProfiles() {
		names = append(names, p.Name)
	}
	return names
}

func isBuiltInName(name string) bool {
	for _, p := range GCodeProfiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// NewCustomProfile returns a copy of the Generic profile under a new name.
func NewCustomProfile(name string) GCodeProfile {
	p := GetProfile("Generic")
	p.Name = name
	p.Description = "Custom profile"
	p.IsBuiltIn = false
	p.StartCode = append([]string(nil), p.StartCode...)
	p.EndCode = append([]string(nil), p.EndCode...)
	return p
}

// AddCustomProfile adds p or replaces the custom profile with the same name.
func AddCustomProfile(p GCodeProfile) error {
	if isBuiltInName(p.Name) {
		return fmt.Errorf("cannot overwrite built-in profile %q", p.Name)
	}
	p.IsBuiltIn = false
	for i := range CustomProfiles {
		if CustomProfiles[i].Name == p.Name {
			CustomProfiles[i] = p
			return nil
		}
	}
	CustomProfiles = append(CustomProfiles, p)
	return nil
}

// SaveCustomProfileAs stores p in place of the custom profile named old.
// Nothing changes when the new name belongs to a built-in or another
// custom profile, or when old does not exist.
func SaveCustomProfileAs(old string, p GCodeProfile) error {
	if p.Name == old {
		return AddCustomProfile(p)
	}
	if isBuiltInName(p.Name) {
		return fmt.Errorf("cannot overwrite built-in profile %q", p.Name)
	}
	idx := -1
	for i := range CustomProfiles {
		switch CustomProfiles[i].Name {
		case p.Name:
			return fmt.Errorf("profile %q already exists", p.Name)
		case old:
			idx = i
		}
	}
	if idx < 0 {
		return fmt.Errorf("profile %q not found", old)
	}
	p.IsBuiltIn = false
	CustomProfiles[idx] = p
	return nil
}

// RemoveCustomProfile deletes a custom profile by name.
func RemoveCustomProfile(name string) error {
	if isBuiltInName(name) {
		return fmt.Errorf("cannot remove built-in profile %q", name)
	}
	for i := range CustomProfiles {
		if CustomProfiles[i].Name == name {
			CustomProfiles = append(CustomProfiles[:i], CustomProfiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("profile %q not found", name)
}
