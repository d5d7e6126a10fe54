package goroutine

import (
	"runtime/debug"

	"github.com/x-xyz/settlement/base/log"
)

var (
	logger = log.Log()
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type RecoverableGoOptions struct {
	beforeStart    *func()
	afterEnded     *func()
	afterRecovered *func(panic interface{}, stack []byte)
}

type RecoverableGoOptionsFunc = func(*RecoverableGoOptions) error

func getRecoverableGoOptions(fns ...RecoverableGoOptionsFunc) RecoverableGoOptions {
	opts := RecoverableGoOptions{}
	for _, fn := range fns {
		fn(&opts)
	}
	return opts
}

func WithBeforeStart(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.beforeStart = &f
		return nil
	}
}

func WithAfterEnded(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterEnded = &f
		return nil
	}
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterRecovered = &f
		return nil
	}
}

// RecoverableRun runs f on the calling goroutine and turns a panic into a PanicEvent.
// It returns nil when f finished normally.
func RecoverableRun(f func(), fns ...RecoverableGoOptionsFunc) (event *PanicEvent) {
	opts := getRecoverableGoOptions(fns...)

	defer func() {
		if opts.afterEnded != nil {
			(*opts.afterEnded)()
		}

		if p := recover(); p != nil {
			stack := debug.Stack()

			logger.WithFields(log.Fields{
				"err":   p,
				"stack": string(stack),
			}).Error("panic")

			if opts.afterRecovered != nil {
				(*opts.afterRecovered)(p, stack)
			}

			event = &PanicEvent{p, stack}
		}
	}()

	if opts.beforeStart != nil {
		(*opts.beforeStart)()
	}

	f()
	return nil
}

// RecoverableGo runs f on a new goroutine. The returned channel yields the panic,
// if any, and is closed otherwise.
func RecoverableGo(f func(), fns ...RecoverableGoOptionsFunc) chan *PanicEvent {
	panicChan := make(chan *PanicEvent, 1)

	go func() {
		if event := RecoverableRun(f, fns...); event != nil {
			panicChan <- event
			return
		}
		close(panicChan)
	}()

	return panicChan
}
