package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pumpbtc-labs/pump-staking/util"
)

// NewRootLoggerWithFile builds a root logger that mirrors its output to
// stdout and the given log file, creating the log directory if needed.
func NewRootLoggerWithFile(logFile string, level string) (*zap.Logger, error) {
	if err := util.MakeDirectory(filepath.Dir(logFile)); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	mw := io.MultiWriter(os.Stdout, f)

	logger, err := NewRootLogger("logfmt", level, mw)
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// NewRootLogger builds a root logger with the given encoding format
// ("logfmt", "json" or "console") and level, writing to w.
func NewRootLogger(format string, level string, w io.Writer) (*zap.Logger, error) {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch format {
	case "logfmt":
		encoder = zaplogfmt.NewEncoder(ec)
	case "json":
		encoder = zapcore.NewJSONEncoder(ec)
	case "console":
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(ec)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("unsupported log level %s: %w", level, err)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)

	return zap.New(core), nil
}
