package rolepermission

import (
	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/permstore/pkg/metrics"
)

type Option func(*options)

// WithUserDirectory sets how bound user ids are resolved into UserInfo.
func WithUserDirectory(users UserDirectory) Option {
	return func(o *options) {
		o.users = users
	}
}

// WithSuperAdmins lists users that hold every permission.
func WithSuperAdmins(userIDs ...string) Option {
	return func(o *options) {
		for _, id := range userIDs {
			o.superAdmins[id] = struct{}{}
		}
	}
}

func WithStatter(statter metrics.Statter) Option {
	return func(o *options) {
		o.statter = statter
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

type options struct {
	users       UserDirectory
	superAdmins map[string]struct{}
	statter     metrics.Statter
	clock       clock.Clock
}

func defaultOptions() *options {
	return &options{
		users:       BareUserDirectory,
		superAdmins: make(map[string]struct{}),
		statter:     metrics.Discard,
		clock:       clock.NewClock(),
	}
}
