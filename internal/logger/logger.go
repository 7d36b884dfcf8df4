package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. Init must be called before any package
// logs through it.
var Log *zap.Logger

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func Init() {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true

	var err error
	Log, err = cfg.Build()
	if err != nil {
		// A broken logger config is a programming error, nothing to recover.
		panic(err)
	}
}

// SetDebug switches the global log level between Debug and Info.
func SetDebug(debug bool) {
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
