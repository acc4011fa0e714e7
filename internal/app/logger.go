package app

import (
	"strings"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/logger"
)

// serviceName tags every log entry of the process.
const serviceName = "homework-backend"

// ConfigureLogging builds the global logger from the server settings.
func ConfigureLogging(cfg ServerConfig) error {
	return logger.InitWithOptions(logger.Options{
		Level:    strings.TrimSpace(cfg.LogLevel),
		Encoding: strings.TrimSpace(cfg.LogEncoding),
		Service:  serviceName,
	})
}
