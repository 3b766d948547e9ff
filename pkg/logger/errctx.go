package logger

import (
	"context"
	"errors"
)

// errorWithLogCtx carries the LogCtx that was active when the error occurred,
// so the caller can log with the same fields.
type errorWithLogCtx struct {
	err    error
	logCtx LogCtx
}

func (e *errorWithLogCtx) Error() string {
	return e.err.Error()
}

func (e *errorWithLogCtx) Unwrap() error {
	return e.err
}

// WrapError attaches the current LogCtx to err. Returns nil for a nil error.
func WrapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var e *errorWithLogCtx
	if errors.As(err, &e) {
		if lc, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
			e.logCtx = lc
		}
		return e
	}

	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	return &errorWithLogCtx{err: err, logCtx: lc}
}

// ErrorCtx restores the LogCtx captured in err into ctx, if any.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *errorWithLogCtx
	if errors.As(err, &e) && e != nil {
		return context.WithValue(ctx, LogCtxKey, e.logCtx)
	}
	return ctx
}
