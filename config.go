package staticpress

import "github.com/staticpress/staticpress/internal/runtimeconfig"

type (
	Config        = runtimeconfig.Config
	ContentConfig = runtimeconfig.ContentConfig
	ServerConfig  = runtimeconfig.ServerConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	ImagesConfig  = runtimeconfig.ImagesConfig
	WatchConfig   = runtimeconfig.WatchConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ConfigFromFile decodes a YAML configuration file over the defaults.
func ConfigFromFile(path string) (Config, error) {
	return runtimeconfig.FromFile(path)
}
