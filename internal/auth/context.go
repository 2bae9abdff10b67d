package auth

import (
	"context"
	"errors"
)

type ctxKey int

const (
	ctxKeyDeviceID ctxKey = iota
	ctxKeyRole
)

func WithIdentity(ctx context.Context, deviceID, role string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyDeviceID, deviceID)
	ctx = context.WithValue(ctx, ctxKeyRole, role)
	return ctx
}

func DeviceID(ctx context.Context) (string, error) {
	if s, ok := ctx.Value(ctxKeyDeviceID).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("device_id not in context")
}

func Role(ctx context.Context) (string, error) {
	if s, ok := ctx.Value(ctxKeyRole).(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("role not in context")
}
