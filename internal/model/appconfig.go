package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new projects
	DefaultDepth          int     `json:"default_depth" toml:"default_depth"`
	DefaultMemoryBudgetMB int     `json:"default_memory_budget_mb" toml:"default_memory_budget_mb"`
	DefaultToolDiameter   float64 `json:"default_tool_diameter" toml:"default_tool_diameter"`
	DefaultFeedRate       float64 `json:"default_feed_rate" toml:"default_feed_rate"`
	DefaultPlungeRate     float64 `json:"default_plunge_rate" toml:"default_plunge_rate"`
	DefaultSpindleSpeed   int     `json:"default_spindle_speed" toml:"default_spindle_speed"`
	DefaultSafeZ          float64 `json:"default_safe_z" toml:"default_safe_z"`
	DefaultCutDepth       float64 `json:"default_cut_depth" toml:"default_cut_depth"`
	DefaultPassDepth      float64 `json:"default_pass_depth" toml:"default_pass_depth"`
	DefaultGCodeProfile   string  `json:"default_gcode_profile" toml:"default_gcode_profile"`

	// Result cache: "none", "file" or "redis"
	CacheBackend string `json:"cache_backend" toml:"cache_backend"`
	CacheDir     string `json:"cache_dir,omitempty" toml:"cache_dir,omitempty"`
	RedisAddr    string `json:"redis_addr,omitempty" toml:"redis_addr,omitempty"`

	ServerAddr string `json:"server_addr" toml:"server_addr"`

	// Application preferences
	RecentProjects []string `json:"recent_projects" toml:"recent_projects"`
	Theme          string   `json:"theme" toml:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultDepth:          defaults.Depth,
		DefaultMemoryBudgetMB: defaults.MemoryBudgetMB,
		DefaultToolDiameter:   defaults.ToolDiameter,
		DefaultFeedRate:       defaults.FeedRate,
		DefaultPlungeRate:     defaults.PlungeRate,
		DefaultSpindleSpeed:   defaults.SpindleSpeed,
		DefaultSafeZ:          defaults.SafeZ,
		DefaultCutDepth:       defaults.CutDepth,
		DefaultPassDepth:      defaults.PassDepth,
		DefaultGCodeProfile:   defaults.GCodeProfile,
		CacheBackend:          "file",
		ServerAddr:            ":8080",
		RecentProjects:        []string{},
		Theme:                 "system",
	}
}

// ApplyToSettings copies the default values from AppConfig into a CutSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *CutSettings) {
	s.Depth = c.DefaultDepth
	s.MemoryBudgetMB = c.DefaultMemoryBudgetMB
	s.ToolDiameter = c.DefaultToolDiameter
	s.FeedRate = c.DefaultFeedRate
	s.PlungeRate = c.DefaultPlungeRate
	s.SpindleSpeed = c.DefaultSpindleSpeed
	s.SafeZ = c.DefaultSafeZ
	s.CutDepth = c.DefaultCutDepth
	s.PassDepth = c.DefaultPassDepth
	s.GCodeProfile = c.DefaultGCodeProfile
}

// AddRecentProject moves path to the front of the recent list, keeping at
// most limit entries.
func (c *AppConfig) AddRecentProject(path string, limit int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path && len(recent) < limit {
			recent = append(recent, p)
		}
	}
	c.RecentProjects = recent
}
