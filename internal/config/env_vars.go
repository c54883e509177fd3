package config

const (
	appNameKey   = "app_name"
	envKey       = "env"
	logLevelKey  = "log_level"
	logFormatKey = "log_format"
)

type EnvVars struct {
	source
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return e.str(appNameKey)
}

// GetEnv returns the deployment environment, "DEV" unless ENV is set.
func (e EnvVars) GetEnv() string {
	return e.str(envKey)
}

// GetLogLevel returns a zerolog level name (debug, info, warn, error).
func (e EnvVars) GetLogLevel() string {
	return e.str(logLevelKey)
}

// GetLogFormat returns "console" or "json".
func (e EnvVars) GetLogFormat() string {
	return e.str(logFormatKey)
}
