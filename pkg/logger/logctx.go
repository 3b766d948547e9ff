package logger

import "context"

type (
	// LogCtx holds the request-scoped fields that the handler injects
	// into every log record.
	LogCtx struct {
		Action    string
		UserID    string
		RequestID string
		RideID    string
	}

	logCtxKeyStruct struct{}
)

// LogCtxKey is the context key under which a LogCtx travels.
var LogCtxKey = &logCtxKeyStruct{}

// WithAction sets the action field, preserving the rest of an existing LogCtx.
func WithAction(ctx context.Context, action string) context.Context {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	lc.Action = action
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithUserID sets the user id field, preserving the rest of an existing LogCtx.
func WithUserID(ctx context.Context, userID string) context.Context {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	lc.UserID = userID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRequestID sets the request id field, preserving the rest of an existing LogCtx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	lc.RequestID = requestID
	return context.WithValue(ctx, LogCtxKey, lc)
}

// WithRideID sets the ride id field, preserving the rest of an existing LogCtx.
func WithRideID(ctx context.Context, rideID string) context.Context {
	lc, _ := ctx.Value(LogCtxKey).(LogCtx)
	lc.RideID = rideID
	return context.WithValue(ctx, LogCtxKey, lc)
}
