package fiberlog

import "github.com/sirupsen/logrus"

// Config is config for middleware
type Config struct {
	Logger *logrus.Logger
	Tags   []string
	// SkipPaths запросы по этим путям не логируются (health check)
	SkipPaths []string
}

// ConfigDefault is the default config
var ConfigDefault Config = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		TagCandidateID,
	},
}

func (c Config) skip(path string) bool {
	for _, item := range c.SkipPaths {
		if item == path {
			return true
		}
	}
	return false
}
