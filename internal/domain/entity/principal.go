package entity

import "context"

// Principal is the authenticated caller behind a request.
type Principal struct {
	CredentialID int64
	Identifier   string
	Privilege    int
	TokenID      string
}

func (p Principal) IsElevated() bool {
	return p.Privilege >= PrivilegeAdmin
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// ActorID returns the caller's credential id for audit entries, or nil.
func ActorID(ctx context.Context) *int64 {
	p, ok := PrincipalFrom(ctx)
	if !ok || p.CredentialID == 0 {
		return nil
	}
	id := p.CredentialID
	return &id
}
