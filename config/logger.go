package config

import (
	"sync"

	"github.com/MonkyMars/gecho"
)

var (
	logger     *gecho.Logger
	loggerOnce sync.Once
)

// InitializeLogger builds the shared application logger. It is safe to call
// more than once; every call returns the same instance.
func InitializeLogger() *gecho.Logger {
	loggerOnce.Do(func() {
		logger = gecho.NewDefaultLogger()
	})
	return logger
}

func GetLogger() *gecho.Logger {
	return InitializeLogger()
}
