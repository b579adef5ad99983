package gpthandler

import "context"

type contextKey string

const candidateIDKey contextKey = "candidateID"

// WithCandidateID добавляет идентификатор кандидата в контекст для журнала обращений к ИИ
func WithCandidateID(ctx context.Context, candidateID string) context.Context {
	return context.WithValue(ctx, candidateIDKey, candidateID)
}

func CandidateIDFromContext(ctx context.Context) string {
	if value, ok := ctx.Value(candidateIDKey).(string); ok {
		return value
	}
	return ""
}
