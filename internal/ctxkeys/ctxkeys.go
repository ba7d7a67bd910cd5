package ctxkeys

import "context"

// contextKey 用于在 context 中存储值的键类型
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	groupIDKey   contextKey = "group_id"
)

// WithRequestID 设置本次调度的请求 ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID 获取请求 ID
func RequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requestIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// WithGroupID 设置当前调度命中的分组
func WithGroupID(ctx context.Context, groupID string) context.Context {
	return context.WithValue(ctx, groupIDKey, groupID)
}

// GroupID 获取分组 ID
func GroupID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(groupIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
