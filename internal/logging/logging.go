// Package logging wraps a package-level logrus logger behind a terse
// Debug/Debugf/Info/Infof/Error/Errorf/Fatal/Fatalf call-site shape, modelled
// on the one joycontrol/log/logger.go used around the standard library's
// log package.
// Swapping in logrus buys structured fields and level filtering without
// touching any call site in the rest of the module.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl := os.Getenv("PROCONBRIDGE_LOG_LEVEL"); lvl != "" {
		if parsed, err := logrus.ParseLevel(lvl); err == nil {
			l.SetLevel(parsed)
		}
	}
	return l
}

// SetLevel adjusts the package logger's verbosity, used by transport/config
// once it has parsed the operator-supplied --log.level flag.
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(parsed)
	return nil
}

// WithField returns a logrus entry pre-populated with one structured
// field, for call sites (transports, subcommand dispatch) that want to tag
// every line with a connection ID or subcommand name.
func WithField(key string, value any) *logrus.Entry {
	return log.WithField(key, value)
}

func Debug(args ...any)              { log.Debug(args...) }
func Debugf(format string, a ...any) { log.Debugf(format, a...) }
func Info(args ...any)               { log.Info(args...) }
func Infof(format string, a ...any)  { log.Infof(format, a...) }
func Error(args ...any)              { log.Error(args...) }
func Errorf(format string, a ...any) { log.Errorf(format, a...) }
func Fatal(args ...any)              { log.Fatal(args...) }
func Fatalf(format string, a ...any) { log.Fatalf(format, a...) }
