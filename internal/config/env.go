// Package config provides configuration helpers for stagesense commands:
// small env-var lookups for runtime wiring and a YAML tuning file for the
// engine thresholds.
package config

import "os"

// Defaults for command-line wiring.
const (
	DefaultDashboardPort = "8080"
	DefaultTickRate      = 60
	DefaultCameraDevice  = 0
)

// DashboardPort returns the dashboard port from STAGESENSE_PORT.
// Falls back to the default if not set.
func DashboardPort() string {
	if p := os.Getenv("STAGESENSE_PORT"); p != "" {
		return p
	}
	return DefaultDashboardPort
}

// TuningPath returns the tuning file path from STAGESENSE_TUNING, or empty
// when the built-in defaults should be used.
func TuningPath() string {
	return os.Getenv("STAGESENSE_TUNING")
}

// LogLevel returns the log level name from STAGESENSE_LOG (debug, info,
// warn, error). Empty means info.
func LogLevel() string {
	return os.Getenv("STAGESENSE_LOG")
}

// HandModelPath returns the hand landmark model path from HAND_MODEL.
// Falls back to the provided default if not set.
func HandModelPath(defaultPath string) string {
	if p := os.Getenv("HAND_MODEL"); p != "" {
		return p
	}
	return defaultPath
}

// PoseModelPath returns the pose landmark model path from POSE_MODEL, or
// empty when pose extraction should stay disabled.
func PoseModelPath() string {
	return os.Getenv("POSE_MODEL")
}
