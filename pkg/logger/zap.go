package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the ctx-first logging facade the service codes against,
// backed by a zap SugaredLogger.
type Logger interface {
	Debug(ctx context.Context, args ...any)
	Debugf(ctx context.Context, template string, args ...any)
	Info(ctx context.Context, args ...any)
	Infof(ctx context.Context, template string, args ...any)
	Warn(ctx context.Context, args ...any)
	Warnf(ctx context.Context, template string, args ...any)
	Error(ctx context.Context, args ...any)
	Errorf(ctx context.Context, template string, args ...any)
	Fatal(ctx context.Context, args ...any)
	Fatalf(ctx context.Context, template string, args ...any)
}

type ZapConfig struct {
	Level    string
	Mode     string
	Encoding string
}

type zapLogger struct {
	sugar *zap.SugaredLogger
	cfg   *ZapConfig
}

func InitializeZapLogger(cfg ZapConfig) Logger {
	l := zapLogger{cfg: &cfg}
	l.init()
	return &l
}

// InitializeTestZapLogger builds a console debug logger for tests.
func InitializeTestZapLogger() Logger {
	l := zapLogger{
		cfg: &ZapConfig{
			Level:    "debug",
			Mode:     "testing",
			Encoding: "console",
		},
	}
	l.init()
	return &l
}

var logLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}

func (l *zapLogger) init() {
	level, ok := logLevelMap[l.cfg.Level]
	if !ok {
		level = zapcore.DebugLevel
	}

	var encoderCfg zapcore.EncoderConfig
	if l.cfg.Mode == "production" {
		encoderCfg = zap.NewProductionEncoderConfig()
	} else {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	}
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if l.cfg.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), zap.NewAtomicLevelAt(level))
	l.sugar = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

func (l *zapLogger) Debug(ctx context.Context, args ...any) {
	l.sugar.Debug(args...)
}

func (l *zapLogger) Debugf(ctx context.Context, template string, args ...any) {
	l.sugar.Debugf(template, args...)
}

func (l *zapLogger) Info(ctx context.Context, args ...any) {
	l.sugar.Info(args...)
}

func (l *zapLogger) Infof(ctx context.Context, template string, args ...any) {
	l.sugar.Infof(template, args...)
}

func (l *zapLogger) Warn(ctx context.Context, args ...any) {
	l.sugar.Warn(args...)
}

func (l *zapLogger) Warnf(ctx context.Context, template string, args ...any) {
	l.sugar.Warnf(template, args...)
}

func (l *zapLogger) Error(ctx context.Context, args ...any) {
	l.sugar.Error(args...)
}

func (l *zapLogger) Errorf(ctx context.Context, template string, args ...any) {
	l.sugar.Errorf(template, args...)
}

func (l *zapLogger) Fatal(ctx context.Context, args ...any) {
	l.sugar.Fatal(args...)
}

func (l *zapLogger) Fatalf(ctx context.Context, template string, args ...any) {
	l.sugar.Fatalf(template, args...)
}
