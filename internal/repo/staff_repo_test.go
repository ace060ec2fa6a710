package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagnosis/clinicdesk/internal/domain"
	"github.com/diagnosis/clinicdesk/internal/store"
)

func account(id, email string) domain.StaffAccount {
	return domain.StaffAccount{
		ID: id, GivenName: "Ana", FamilyName: "Silva", Email: email,
		SecretHash: "$argon2id$stub", CreatedAt: time.Now().UTC(),
	}
}

func TestStaffRepo_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	r := NewStaffRepo(store.NewMemoryBackend())

	require.NoError(t, r.Create(ctx, account("a1", "ana@x.com")))

	got, err := r.FindByEmail(ctx, "  ANA@x.COM ")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	got, err = r.FindByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", got.Email)

	_, err = r.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.FindByID(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStaffRepo_DuplicateEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	r := NewStaffRepo(store.NewMemoryBackend())

	require.NoError(t, r.Create(ctx, account("a1", "Ana@X.com")))
	assert.ErrorIs(t, r.Create(ctx, account("a2", "ana@x.COM")), domain.ErrDuplicateEmail)
}

func TestStaffRepo_ConcurrentSignupsSameEmail(t *testing.T) {
	ctx := context.Background()
	r := NewStaffRepo(store.NewFileBackend(t.TempDir()))

	const n = 20
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- r.Create(ctx, account(fmt.Sprintf("a%d", i), "race@x.com"))
		}(i)
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrDuplicateEmail):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}
