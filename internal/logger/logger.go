package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	DevMode  bool   `env:"LOGGER_DEV_MODE" envDefault:"false"`
	LogLevel string `env:"LOGGER_LEVEL" envDefault:"info"`
}

// Logger is the logging contract used across the application.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
}

type AppLogger struct {
	cfg     *Config
	sugared *zap.SugaredLogger
}

func NewAppLogger(cfg *Config) *AppLogger {
	return &AppLogger{cfg: cfg}
}

func (l *AppLogger) InitLogger() {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(l.cfg.LogLevel); err == nil {
		level = parsed
	}

	var encoderCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if l.cfg.DevMode {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoderCfg = zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	l.sugared = zap.New(core).Sugar()
}

// SetLevel replaces the logger with one filtered at the given level.
// Used by the --quiet flag after initialization.
func (l *AppLogger) SetLevel(level zapcore.Level) {
	l.cfg.LogLevel = level.String()
	l.InitLogger()
}

func (l *AppLogger) Debug(args ...interface{})                   { l.sugared.Debug(args...) }
func (l *AppLogger) Debugf(template string, args ...interface{}) { l.sugared.Debugf(template, args...) }
func (l *AppLogger) Info(args ...interface{})                    { l.sugared.Info(args...) }
func (l *AppLogger) Infof(template string, args ...interface{})  { l.sugared.Infof(template, args...) }
func (l *AppLogger) Warn(args ...interface{})                    { l.sugared.Warn(args...) }
func (l *AppLogger) Warnf(template string, args ...interface{})  { l.sugared.Warnf(template, args...) }
func (l *AppLogger) Error(args ...interface{})                   { l.sugared.Error(args...) }
func (l *AppLogger) Errorf(template string, args ...interface{}) { l.sugared.Errorf(template, args...) }
func (l *AppLogger) Fatal(args ...interface{})                   { l.sugared.Fatal(args...) }
func (l *AppLogger) Fatalf(template string, args ...interface{}) { l.sugared.Fatalf(template, args...) }

func (l *AppLogger) Sync() {
	if l.sugared != nil {
		_ = l.sugared.Sync()
	}
}
