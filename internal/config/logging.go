package config

import "markdeck/internal/logging"

// LogSources logs where every non-default setting came from.
func LogSources(logger *logging.Logger, cfg Config) {
	if logger == nil || len(cfg.Sources) == 0 {
		return
	}
	fields := make(map[string]string)
	for key, source := range cfg.Sources {
		if source != SourceDefault {
			fields[key] = string(source)
		}
	}
	if len(fields) == 0 {
		return
	}
	if cfg.ConfigFile != "" {
		fields["config"] = cfg.ConfigFile
	}
	logger.Info("configuration overrides", fields)
}
