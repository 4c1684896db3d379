// Package authz holds the authorization predicates shared by services.
package authz

import (
	"context"
	"errors"
	"fmt"

	"socialchat/internal/models"
	"socialchat/internal/repositories"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrNotGroupMember = fmt.Errorf("%w: not a member of this group", ErrForbidden)
	ErrNotGroupAdmin  = fmt.Errorf("%w: group admin required", ErrForbidden)
)

// MembershipLookup is the slice of the group repository the predicates need.
type MembershipLookup interface {
	GetMembership(ctx context.Context, groupID, userID uint) (*models.UserGroup, error)
}

// RequireGroupMember returns the caller's membership or ErrNotGroupMember.
func RequireGroupMember(ctx context.Context, lookup MembershipLookup, groupID, userID uint) (*models.UserGroup, error) {
	m, err := lookup.GetMembership(ctx, groupID, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotGroupMember
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RequireGroupAdmin is the one check every mutating group operation runs first.
func RequireGroupAdmin(ctx context.Context, lookup MembershipLookup, groupID, userID uint) error {
	m, err := RequireGroupMember(ctx, lookup, groupID, userID)
	if err != nil {
		if errors.Is(err, ErrNotGroupMember) {
			return ErrNotGroupAdmin
		}
		return err
	}
	if m.Type != models.MembershipAdmin {
		return ErrNotGroupAdmin
	}
	return nil
}

// HasRole reports whether roles contains want.
func HasRole(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
