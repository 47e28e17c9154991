package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vytor/visualdex/internal/kvstore"
)

// NewTestStore opens an in-memory SQLite store with migrations applied and
// closes it when the test ends.
func NewTestStore(t *testing.T) *kvstore.SQLiteStore {
	t.Helper()
	store, err := kvstore.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { MustClose(t, store) })
	return store
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Clock is a settable time source for tests.
type Clock struct {
	current time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time { return c.current }

func (c *Clock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func (c *Clock) Set(t time.Time) { c.current = t }
