package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger writes plugin messages to stderr tagged with the mpv client
// name, so they show up next to mpv's own terminal output like
// built-in script logging does.
type Logger struct {
	entry *logrus.Entry
}

func Init(clientName string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &Logger{entry: l.WithField("client", clientName)}
}

// SetOutput redirects log output, mainly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

func (l *Logger) Print(s string) {
	l.entry.Info(s)
}

func (l *Logger) Printf(s string, as ...interface{}) {
	l.entry.Infof(s, as...)
}

func (l *Logger) PrintError(source string, err error) {
	l.entry.WithField("source", source).Error(err.Error())
}
