// Package logging wraps zap in the teacher's Infof/Warnf/Errorf call
// convention (see other_examples zvuk-grabber), so every package in this
// repository logs the same way without wiring a logger through every
// constructor.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log *zap.SugaredLogger
)

func init() {
	base, err := zap.NewProduction()
	if err != nil {
		base = zap.NewNop()
	}
	log = base.Sugar()
}

// SetDevelopment swaps in a human-readable console logger in place of
// the production logger installed at init.
func SetDevelopment() {
	base, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	mu.Lock()
	log = base.Sugar()
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Infof(format string, args ...interface{})  { current().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { current().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }
func Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }

// Sync flushes buffered log entries; call before process exit.
func Sync() {
	_ = current().Sync()
}
