package initializers

import (
	"github.com/bskqd/sd-solutions-test-task/fiberlog"

	log "github.com/sirupsen/logrus"
)

func InitLogger(level string) *fiberlog.Config {
	formatter := &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
	logLevel, err := log.ParseLevel(level)
	if err != nil {
		logLevel = log.InfoLevel
	}
	log.SetFormatter(formatter)
	log.SetLevel(logLevel)
	if err != nil {
		log.WithField("level", level).Warn("неизвестный уровень логирования, используется info")
	}

	logger := log.New()
	logger.SetFormatter(formatter)
	logger.SetLevel(log.DebugLevel)
	return &fiberlog.Config{
		Logger: logger,
		Tags: []string{
			fiberlog.TagBody,
			fiberlog.TagResBody,
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagCandidateID,
			fiberlog.RequestID,
		},
		SkipPaths: []string{"/api/v1/health"},
	}
}
