package config

import (
	"flag"
	"strings"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagMaps     = flag.String("maps", "", "Texture search directories (comma separated, overrides config)")
	flagStrict   = flag.Bool("strict", false, "Apply encode-level validation checks")
	flagTextures = flag.Bool("textures", false, "Resolve texture references during validation")
	flagLogFile  = flag.String("log-file", "", "Write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMaps != "" {
		var paths []string
		for _, p := range strings.Split(*flagMaps, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}
		cfg.Data.MapPaths = paths
	}
	if *flagStrict {
		cfg.Validation.Strict = true
	}
	if *flagTextures {
		cfg.Validation.CheckTextures = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
