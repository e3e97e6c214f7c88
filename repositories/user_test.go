package repositories

import (
	"sync"
	"testing"

	"courier/domain"
	"courier/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newUserRepo(t *testing.T, db *badger.DB) *UserRepository {
	t.Helper()
	repo, err := NewUserRepository(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := newUserRepo(t, db)

	created, err := repo.Create("harry", "hashed-secret")
	req.NoError(err)
	req.NotZero(created.ID)
	req.Equal("harry", created.Username)

	byID, err := repo.Find(domain.ByID(created.ID))
	req.NoError(err)
	req.Equal(created.ID, byID.ID)
	req.Equal("hashed-secret", byID.PasswordHash)

	byName, err := repo.Find(domain.ByUsername("harry"))
	req.NoError(err)
	req.Equal(created.ID, byName.ID)

	_, err = repo.Find(domain.ByUsername("nobody"))
	req.ErrorIs(err, errors.ErrUserNotFound)

	_, err = repo.Find(domain.ByID(domain.UserID(9999)))
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := newUserRepo(t, db)

	_, err := repo.Create("billy", "hash-a")
	req.NoError(err)

	_, err = repo.Create("billy", "hash-b")
	req.ErrorIs(err, errors.ErrUsernameTaken)
}

// Two concurrent registrations for the same username: exactly one wins,
// the loser gets the conflict error from the storage-layer constraint.
func TestUserRepository_ConcurrentDuplicateUsername(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := newUserRepo(t, db)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.Create("joe", "hash")
		}(i)
	}
	wg.Wait()

	failures := lo.Filter(results, func(err error, _ int) bool { return err != nil })
	req.Len(failures, 1)
	req.ErrorIs(failures[0], errors.ErrUsernameTaken)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := openTestDB(t)
	repo := newUserRepo(t, db)

	created, err := repo.Create("harry", "hash")
	require.NoError(t, err)

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		req := require.New(t)
		bio := "wizard"
		updated, err := repo.UpdateProfile(created.ID, ProfileUpdate{Bio: &bio})
		req.NoError(err)
		req.Equal("wizard", updated.Bio)
		req.Equal("harry", updated.Username)

		avatar := "http://localhost/avatars/x.png"
		updated, err = repo.UpdateProfile(created.ID, ProfileUpdate{AvatarURL: &avatar})
		req.NoError(err)
		req.Equal(avatar, updated.AvatarURL)
		req.Equal("wizard", updated.Bio)
	})

	t.Run("username change moves the index", func(t *testing.T) {
		req := require.New(t)
		name := "harry_potter"
		updated, err := repo.UpdateProfile(created.ID, ProfileUpdate{Username: &name})
		req.NoError(err)
		req.Equal("harry_potter", updated.Username)

		_, err = repo.Find(domain.ByUsername("harry"))
		req.ErrorIs(err, errors.ErrUserNotFound)

		found, err := repo.Find(domain.ByUsername("harry_potter"))
		req.NoError(err)
		req.Equal(created.ID, found.ID)
	})

	t.Run("username change into a taken name fails", func(t *testing.T) {
		req := require.New(t)
		_, err := repo.Create("billy", "hash")
		req.NoError(err)

		name := "billy"
		_, err = repo.UpdateProfile(created.ID, ProfileUpdate{Username: &name})
		req.ErrorIs(err, errors.ErrUsernameTaken)
	})

	t.Run("unknown user", func(t *testing.T) {
		req := require.New(t)
		bio := "ghost"
		_, err := repo.UpdateProfile(domain.UserID(424242), ProfileUpdate{Bio: &bio})
		req.ErrorIs(err, errors.ErrUserNotFound)
	})
}

func TestUserRepository_ListOthers(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := newUserRepo(t, db)

	harry, err := repo.Create("harry", "hash")
	req.NoError(err)
	billy, err := repo.Create("billy", "hash")
	req.NoError(err)
	joe, err := repo.Create("joe", "hash")
	req.NoError(err)

	others, err := repo.ListOthers(harry.ID)
	req.NoError(err)
	req.Equal([]domain.UserID{billy.ID, joe.ID}, lo.Map(others, func(u UserSummary, _ int) domain.UserID {
		return u.ID
	}))

	// Deterministic across repeated calls with unchanged data.
	again, err := repo.ListOthers(harry.ID)
	req.NoError(err)
	req.Equal(others, again)
}
