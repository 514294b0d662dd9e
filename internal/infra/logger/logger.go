package logger

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	lg   *zap.Logger
	once sync.Once
)

// New returns a process-wide zap.Logger. Production uses JSON output; every
// other environment gets the colored development encoder.
func New(env string) (*zap.Logger, error) {
	var err error
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		if env != "production" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		cfg.InitialFields = map[string]any{"component": "rbac"}

		lg, err = cfg.Build()
	})

	return lg, err
}

// WithContext attaches the request id and, when present, the authorization
// subject carried on ctx.
func WithContext(ctx context.Context) *zap.Logger {
	return WithContextFrom(ctx, lg)
}

// WithContextFrom is WithContext over an explicit base logger.
func WithContextFrom(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	if ctx == nil {
		return base
	}

	fields := make([]zap.Field, 0, 3)
	if id := stringValue(ctx, RequestIDKey{}); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if teamID := stringValue(ctx, TeamIDKey{}); teamID != "" {
		fields = append(fields, zap.String("team_id", teamID))
	}
	if userID := stringValue(ctx, UserIDKey{}); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	return base.With(fields...)
}

func stringValue(ctx context.Context, key any) string {
	if val, ok := ctx.Value(key).(string); ok {
		return val
	}
	return ""
}

// RequestIDKey is used to store a request identifier on the context.
type RequestIDKey struct{}

// TeamIDKey carries the team an authorization question is asked about.
type TeamIDKey struct{}

// UserIDKey carries the authenticated caller's user id.
type UserIDKey struct{}

var emailRegex = regexp.MustCompile(`^([^@]{1,3})[^@]*(@.+)$`)

// MaskEmail masks email addresses, showing first 3 characters and domain
// Example: john.doe@example.com -> joh***@example.com
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	matches := emailRegex.FindStringSubmatch(email)
	if len(matches) == 3 {
		return matches[1] + "***" + matches[2]
	}

	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 {
		return "***@" + parts[1]
	}

	return "***"
}
