package rolepermission

import (
	"context"

	"code.cloudfoundry.org/permstore/pkg/perm"
)

// UserDirectory resolves user ids. FindUser returns perm.ErrUserNotFound for
// ids it does not know.
type UserDirectory interface {
	FindUser(ctx context.Context, userID string) (perm.UserInfo, error)
}

type UserDirectoryFunc func(ctx context.Context, userID string) (perm.UserInfo, error)

func (f UserDirectoryFunc) FindUser(ctx context.Context, userID string) (perm.UserInfo, error) {
	return f(ctx, userID)
}

// BareUserDirectory knows every user and only fills in the id.
var BareUserDirectory = UserDirectoryFunc(func(ctx context.Context, userID string) (perm.UserInfo, error) {
	return perm.UserInfo{
		UserID:  userID,
		Name:    userID,
		Enabled: true,
	}, nil
})
