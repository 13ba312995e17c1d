package inmemory_test

import (
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"code.cloudfoundry.org/permstore/pkg/api/repos"
	. "code.cloudfoundry.org/permstore/pkg/api/repos/inmemory"
	. "code.cloudfoundry.org/permstore/pkg/api/repos/reposbehaviors"
	. "github.com/onsi/ginkgo/v2"
)

var _ = Describe("Store", func() {
	var (
		store *Store
	)

	BeforeEach(func() {
		store = NewStore(fakeclock.NewFakeClock(time.Date(2018, 6, 1, 12, 0, 0, 0, time.UTC)))
	})

	BehavesLikeAStore(func() repos.Store { return store })
})
