package httpapi

import "context"

// Identity is the authenticated caller attached to a request context by the
// auth gate.
type Identity struct {
	Username string
	LoginID  int64
}

type identityKey struct{}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// identityFromContext returns the caller set by withAuth. The second return
// is false on routes that skipped the gate.
func identityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
