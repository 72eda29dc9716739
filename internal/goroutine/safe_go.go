package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/skillswap/backend/internal/logger"
)

// RecoveryHandler перехватывает panic в фоновых горутинах.
type RecoveryHandler struct {
	log *logrus.Entry
}

// NewRecoveryHandler создаёт обработчик, пишущий в указанный лог.
func NewRecoveryHandler(log *logrus.Entry) *RecoveryHandler {
	return &RecoveryHandler{log: log}
}

// SafeGo запускает fn в горутине с обработкой panic.
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer rh.handlePanic()
		fn()
	}()
}

// SafeGoWithContext запускает fn(ctx) в горутине с обработкой panic.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer rh.handlePanic()
		fn(ctx)
	}()
}

func (rh *RecoveryHandler) handlePanic() {
	if r := recover(); r != nil {
		rh.log.WithFields(logrus.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("panic в горутине")
	}
}

// SafeGo запускает горутину через глобальный логгер.
func SafeGo(fn func()) {
	NewRecoveryHandler(logger.Component("goroutine")).SafeGo(fn)
}

// SafeGoWithContext запускает горутину с контекстом через глобальный логгер.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	NewRecoveryHandler(logger.Component("goroutine")).SafeGoWithContext(ctx, fn)
}
