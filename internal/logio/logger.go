package logio

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger writing to w at the given level: human readable
// console lines if console is set, JSON lines otherwise.
func New(w io.Writer, level zapcore.Level, console bool) *zap.Logger {
	var enc zapcore.Encoder
	if console {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		enc = zapcore.NewConsoleEncoder(cfg)
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// Test creates a debug level console logger writing lines through logf,
// typically testing.T.Logf.
func Test(logf func(string, ...interface{})) *zap.Logger {
	return New(&Writer{Logf: logf}, zapcore.DebugLevel, true)
}
