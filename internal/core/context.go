package core

import "context"

// Requester identifies who triggered a mutation. The web layer fills it from
// the request; the CLI sets only a user agent.
type Requester struct {
	IP        string
	UserAgent string
}

type requesterKey struct{}

// WithRequester attaches r to ctx. Audit entries recorded under ctx carry it.
func WithRequester(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, r)
}

// RequesterFromContext returns the Requester attached to ctx, or the zero value.
func RequesterFromContext(ctx context.Context) Requester {
	r, _ := ctx.Value(requesterKey{}).(Requester)
	return r
}
