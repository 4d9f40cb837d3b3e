package logger

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Init configures the process-wide logrus logger. Level comes from LOG_LEVEL
// when set, defaulting to info.
func Init() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = log.InfoLevel
	}

	log.SetLevel(level)
}
