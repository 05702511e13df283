package handler

import "context"

type ContextKey string

var (
	RequestIDCtxKey ContextKey = "requestId"
	FormCtxKey      ContextKey = "form"
)

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDCtxKey).(string)
	return id
}
