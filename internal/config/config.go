// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Validation ValidationConfig `yaml:"validation"`
	Display    DisplayConfig    `yaml:"display"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DataConfig holds game data locations.
type DataConfig struct {
	// MapPaths are the directories searched for textures referenced by
	// model materials, in priority order.
	MapPaths []string `yaml:"map_paths"`
}

// ValidationConfig controls how model files are checked.
type ValidationConfig struct {
	// Strict applies the encode-level checks when validating files, so a
	// file passes only if this tool could also rewrite it.
	Strict bool `yaml:"strict"`

	// CheckTextures resolves every texture reference against MapPaths.
	CheckTextures bool `yaml:"check_textures"`
}

// DisplayConfig holds the overlay colors viewers use when drawing helper
// objects, as "#rrggbb" strings. The codec itself never reads these.
type DisplayConfig struct {
	SectorColor   string `yaml:"sector_color"`
	PortalColor   string `yaml:"portal_color"`
	OccluderColor string `yaml:"occluder_color"`
	MirrorColor   string `yaml:"mirror_color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			MapPaths: []string{"maps"},
		},
		Validation: ValidationConfig{
			Strict:        false,
			CheckTextures: false,
		},
		Display: DisplayConfig{
			SectorColor:   "#40a0ff",
			PortalColor:   "#ff8000",
			OccluderColor: "#808080",
			MirrorColor:   "#80ffff",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
