package services

import "context"

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	TokenID  string `json:"-"`
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// requireActor fails with an unauthenticated PermissionError when ctx carries no identity.
func requireActor(ctx context.Context) (Actor, error) {
	a, ok := ActorFrom(ctx)
	if !ok || a.UserID == 0 {
		return Actor{}, &PermissionError{Message: "authentication required", Unauthenticated: true}
	}
	return a, nil
}

func requireAdmin(ctx context.Context) (Actor, error) {
	a, err := requireActor(ctx)
	if err != nil {
		return Actor{}, err
	}
	if !a.IsAdmin {
		return Actor{}, &PermissionError{Message: "admin only"}
	}
	return a, nil
}
