package llm

import "context"

// purposeKey carries the label LoggingProvider journals with each call.
type purposeKey struct{}

// WithPurpose labels calls made with ctx, e.g. "study-packet". An empty
// purpose leaves ctx unchanged.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	if purpose == "" {
		return ctx
	}
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, _ := ctx.Value(purposeKey{}).(string); p != "" {
		return p
	}
	return "unknown"
}
