package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// Init настраивает уровень и формат глобального логгера.
// В development используется текстовый формат, иначе JSON.
func Init(level string, development bool) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if development {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// Component возвращает запись с полем component.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// Discard отключает вывод логов. Используется в тестах.
func Discard() {
	Log.SetOutput(io.Discard)
}
