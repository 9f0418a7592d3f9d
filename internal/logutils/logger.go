package logutils

import (
	"github.com/sirupsen/logrus"
)

// Log is the process logger. Audit events that must survive restarts go
// through the logs service instead.
var Log = logrus.New()

// Fields is the type of logrus.Fields.
type Fields = logrus.Fields

func init() {
	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat:           "2006-01-02 15:04:05",
		EnvironmentOverrideColors: true,
		FullTimestamp:             true,
	})
}
