package identity

import "context"

// User is the authenticated principal attached to a request.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Provider supplies the current authenticated user. Consumers receive it as
// an injected dependency so tests can substitute their own implementation.
type Provider interface {
	CurrentUser(ctx context.Context) (*User, bool)
}

type contextKey struct{}

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the authenticated user if present.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(contextKey{}).(*User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// ContextProvider resolves identity from the request context populated by
// the auth middleware.
type ContextProvider struct{}

func (ContextProvider) CurrentUser(ctx context.Context) (*User, bool) {
	return UserFromContext(ctx)
}
