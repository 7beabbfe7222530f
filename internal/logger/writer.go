package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// GormWriter adapts the process logger to gorm's logger.Writer interface.
type GormWriter struct{}

func (GormWriter) Printf(format string, args ...interface{}) {
	Log.WithOptions(zap.AddCallerSkip(3)).Info(strings.TrimSpace(fmt.Sprintf(format, args...)),
		zap.String("component", "gorm"),
	)
}
