package service

import (
	"context"
	"fmt"

	"gatelog/internal/gatelog/store"
)

// UnknownOwner is the owner label resolved for uids absent from the
// allow-list.
const UnknownOwner = "unknown"

// Authorizer classifies a uid against the allow-list.  An absent uid is a
// normal outcome (unauthorized), not an error; only an unreachable
// allow-list produces one.
type Authorizer struct {
	allowList store.AuthorizationStore
}

func NewAuthorizer(allowList store.AuthorizationStore) *Authorizer {
	return &Authorizer{allowList: allowList}
}

func (a *Authorizer) Resolve(ctx context.Context, uid string) (authorized bool, owner string, err error) {
	username, ok, err := a.allowList.Lookup(ctx, uid)
	if err != nil {
		return false, "", fmt.Errorf("resolve uid %q: %w", uid, err)
	}
	if !ok {
		return false, UnknownOwner, nil
	}
	return true, username, nil
}
