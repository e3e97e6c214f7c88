//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"courier/domain"
	"courier/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
)

type IUserRepository interface {
	Create(username, hashedPassword string) (domain.User, error)
	Find(ref domain.UserRef) (domain.User, error)
	UpdateProfile(id domain.UserID, update ProfileUpdate) (domain.User, error)
	ListOthers(excluding domain.UserID) ([]UserSummary, error)
}

// ProfileUpdate is a partial update: nil fields keep their prior value.
type ProfileUpdate struct {
	Username  *string
	Bio       *string
	AvatarURL *string
}

// UserSummary is the public projection returned by user listings.
type UserSummary struct {
	ID        domain.UserID
	Username  string
	AvatarURL string
}

type UserRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewUserRepository(db *badger.DB) (*UserRepository, error) {
	seq, err := db.GetSequence([]byte("seq:user"), 64)
	if err != nil {
		return nil, fmt.Errorf("user sequence: %w", err)
	}
	return &UserRepository{db: db, seq: seq}, nil
}

// Close releases the unclaimed tail of the id sequence.
func (u *UserRepository) Close() error {
	return u.seq.Release()
}

// userRecord is the CBOR shape persisted in Badger.
type userRecord struct {
	ID           uint64 `cbor:"id"`
	Username     string `cbor:"username"`
	PasswordHash string `cbor:"password_hash"`
	Bio          string `cbor:"bio,omitempty"`
	AvatarURL    string `cbor:"avatar_url,omitempty"`
	CreatedAt    int64  `cbor:"created_at"`
}

func userKey(id domain.UserID) []byte {
	return []byte(fmt.Sprintf("user:id:%020d", id))
}

func usernameKey(name string) []byte {
	return []byte("user:name:" + name)
}

// Create persists a new user. Username uniqueness is enforced inside the
// write transaction: the username index key is read before being set, so
// two concurrent registrations for the same name cannot both commit.
func (u *UserRepository) Create(username, hashedPassword string) (domain.User, error) {
	id, err := u.nextID()
	if err != nil {
		return domain.User{}, err
	}
	record := userRecord{
		ID:           uint64(id),
		Username:     username,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC().UnixNano(),
	}
	data, err := cbor.Marshal(record)
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		nameKey := usernameKey(username)
		switch _, err := txn.Get(nameKey); {
		case err == nil:
			return errors.ErrUsernameTaken
		case !stderrors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		if err := txn.Set(userKey(id), data); err != nil {
			return err
		}
		return txn.Set(nameKey, []byte(strconv.FormatUint(uint64(id), 10)))
	})
	if stderrors.Is(err, badger.ErrConflict) {
		// The only contended read in this transaction is the username
		// index key, so a commit conflict means the race was lost.
		err = errors.ErrUsernameTaken
	}
	if err != nil {
		return domain.User{}, err
	}
	return toUser(record), nil
}

// Find dispatches on the reference variant: exactly one lookup path is
// taken per call.
func (u *UserRepository) Find(ref domain.UserRef) (domain.User, error) {
	if id, ok := ref.ID(); ok {
		return u.findByID(id)
	}
	name, _ := ref.Username()
	return u.findByUsername(name)
}

func (u *UserRepository) findByID(id domain.UserID) (domain.User, error) {
	var record userRecord
	err := u.db.View(func(txn *badger.Txn) error {
		return getUserRecord(txn, id, &record)
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(record), nil
}

func (u *UserRepository) findByUsername(name string) (domain.User, error) {
	var record userRecord
	err := u.db.View(func(txn *badger.Txn) error {
		id, err := resolveUsername(txn, name)
		if err != nil {
			return err
		}
		return getUserRecord(txn, id, &record)
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(record), nil
}

// UpdateProfile applies the supplied fields only. A username change
// re-checks uniqueness and moves the index key in the same transaction.
func (u *UserRepository) UpdateProfile(id domain.UserID, update ProfileUpdate) (domain.User, error) {
	var record userRecord
	err := u.db.Update(func(txn *badger.Txn) error {
		if err := getUserRecord(txn, id, &record); err != nil {
			return err
		}
		if update.Username != nil && *update.Username != record.Username {
			newKey := usernameKey(*update.Username)
			switch _, err := txn.Get(newKey); {
			case err == nil:
				return errors.ErrUsernameTaken
			case !stderrors.Is(err, badger.ErrKeyNotFound):
				return err
			}
			if err := txn.Delete(usernameKey(record.Username)); err != nil {
				return err
			}
			if err := txn.Set(newKey, []byte(strconv.FormatUint(uint64(id), 10))); err != nil {
				return err
			}
			record.Username = *update.Username
		}
		if update.Bio != nil {
			record.Bio = *update.Bio
		}
		if update.AvatarURL != nil {
			record.AvatarURL = *update.AvatarURL
		}
		data, err := cbor.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(userKey(id), data)
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(record), nil
}

// ListOthers returns every user except the excluded one, ascending by id.
// Key order makes the result deterministic across calls.
func (u *UserRepository) ListOthers(excluding domain.UserID) ([]UserSummary, error) {
	summaries := make([]UserSummary, 0)
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:id:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record userRecord
				if err := cbor.Unmarshal(val, &record); err != nil {
					return err
				}
				if domain.UserID(record.ID) == excluding {
					return nil
				}
				summaries = append(summaries, UserSummary{
					ID:        domain.UserID(record.ID),
					Username:  record.Username,
					AvatarURL: record.AvatarURL,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// nextID skips zero so that the zero value of UserID never names a user.
func (u *UserRepository) nextID() (domain.UserID, error) {
	for {
		n, err := u.seq.Next()
		if err != nil {
			return 0, fmt.Errorf("user id allocation: %w", err)
		}
		if n != 0 {
			return domain.UserID(n), nil
		}
	}
}

func getUserRecord(txn *badger.Txn, id domain.UserID, record *userRecord) error {
	item, err := txn.Get(userKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return cbor.Unmarshal(val, record)
	})
}

func resolveUsername(txn *badger.Txn, name string) (domain.UserID, error) {
	item, err := txn.Get(usernameKey(name))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return 0, errors.ErrUserNotFound
	}
	if err != nil {
		return 0, err
	}
	var id uint64
	err = item.Value(func(val []byte) error {
		id, err = strconv.ParseUint(string(val), 10, 64)
		return err
	})
	return domain.UserID(id), err
}

func toUser(record userRecord) domain.User {
	return domain.User{
		ID:           domain.UserID(record.ID),
		Username:     record.Username,
		PasswordHash: record.PasswordHash,
		Bio:          record.Bio,
		AvatarURL:    record.AvatarURL,
		CreatedAt:    time.Unix(0, record.CreatedAt).UTC(),
	}
}
