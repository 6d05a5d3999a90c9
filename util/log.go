package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

/*
 * a leveled logger on top of zap. which levels get through is decided by
 * the Mode bitmask from the configuration file.
 */
const (
	Error   = 1
	Warning = 2
	Info    = 4

	AllLevels = Error | Warning | Info
)

type LoggerInfo struct {
	Filename  string `yaml:"filename"` // empty means stderr
	IsColored bool   `yaml:"is_colored"`
	SaveTime  bool   `yaml:"save_time"`
	Mode      uint8  `yaml:"mode"`
}

type Logger struct {
	li    LoggerInfo
	zl    *zap.Logger
	close func()
}

func (li *LoggerInfo) enabled(lvl zapcore.Level) bool {
	switch {
	case lvl >= zapcore.ErrorLevel:
		return li.Mode&Error == Error
	case lvl == zapcore.WarnLevel:
		return li.Mode&Warning == Warning
	case lvl == zapcore.InfoLevel:
		return li.Mode&Info == Info
	}
	return false
}

func NewLogger(li *LoggerInfo) (*Logger, error) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if li.IsColored {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if !li.SaveTime {
		encCfg.TimeKey = ""
	}
	encCfg.NameKey = ""
	encCfg.CallerKey = ""

	sink := "stderr"
	if li.Filename != "" {
		sink = li.Filename
	}
	ws, closeSink, err := zap.Open(sink)
	if err != nil {
		return nil, err
	}

	info := *li
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		ws,
		zap.LevelEnablerFunc(info.enabled),
	)
	return &Logger{
		li:    info,
		zl:    zap.New(core),
		close: closeSink,
	}, nil
}

// NewNopLogger drops everything.
func NewNopLogger() *Logger {
	return &Logger{
		zl:    zap.NewNop(),
		close: func() {},
	}
}

// Close flushes buffered entries and releases the log file.
func (l *Logger) Close() error {
	err := l.zl.Sync()
	l.close()
	return err
}

func (l *Logger) LogError(err error, fields ...zap.Field) {
	l.zl.Error(err.Error(), fields...)
}

func (l *Logger) LogWarning(warning string, fields ...zap.Field) {
	l.zl.Warn(warning, fields...)
}

func (l *Logger) LogInfo(info string, fields ...zap.Field) {
	l.zl.Info(info, fields...)
}
