package service

import (
	"context"
	"fmt"
	"strings"

	"gatelog/internal/gatelog/store"
)

// AllowListService fronts the allow-list management surface: validation
// plus pass-through.  Deleting an entry never touches the access log.
type AllowListService struct {
	allowList store.AuthorizationStore
}

func NewAllowListService(allowList store.AuthorizationStore) *AllowListService {
	return &AllowListService{allowList: allowList}
}

func (s *AllowListService) List(ctx context.Context) ([]store.AuthorizationEntry, error) {
	return s.allowList.List(ctx)
}

func (s *AllowListService) Add(ctx context.Context, uid, username string) error {
	uid, username = strings.TrimSpace(uid), strings.TrimSpace(username)
	if uid == "" || username == "" {
		return fmt.Errorf("%w: uid and username are required", ErrValidation)
	}
	return s.allowList.Put(ctx, uid, username)
}

func (s *AllowListService) Rename(ctx context.Context, uid, username string) error {
	uid, username = strings.TrimSpace(uid), strings.TrimSpace(username)
	if uid == "" || username == "" {
		return fmt.Errorf("%w: uid and username are required", ErrValidation)
	}
	return s.allowList.Rename(ctx, uid, username)
}

func (s *AllowListService) Remove(ctx context.Context, uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return fmt.Errorf("%w: uid is required", ErrValidation)
	}
	return s.allowList.Delete(ctx, uid)
}
