package configs

import (
	"flag"
	"os"

	"github.com/hilthontt/voicelink/internal/infrastructure/env"
)

// DetermineConfigPath returns the first config file found, or "" when the
// service should run on defaults and environment overrides alone.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("VOICELINK_CONFIG", "")
	}

	if configPath == "" {
		configPath = firstExisting(
			"./config.yaml",
			"./config.yml",
			"../../config.yaml", // keep for local dev
			"/etc/voicelink/config.yaml",
			"/app/config.yaml", // common in Docker
		)
	}

	return configPath
}

func firstExisting(candidates ...string) string {
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
