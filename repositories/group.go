//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"time"

	"courier/domain"
	"courier/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
)

type IGroupRepository interface {
	Create(name string, creator domain.UserID) (domain.Group, error)
	Get(id domain.GroupID) (domain.Group, error)
	List() ([]domain.Group, error)
	Delete(id domain.GroupID, requester domain.UserID) error
}

type GroupRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewGroupRepository(db *badger.DB) (*GroupRepository, error) {
	seq, err := db.GetSequence([]byte("seq:group"), 64)
	if err != nil {
		return nil, fmt.Errorf("group sequence: %w", err)
	}
	return &GroupRepository{db: db, seq: seq}, nil
}

// Close releases the unclaimed tail of the id sequence.
func (g *GroupRepository) Close() error {
	return g.seq.Release()
}

type groupRecord struct {
	ID        uint64 `cbor:"id"`
	Name      string `cbor:"name"`
	CreatorID uint64 `cbor:"creator_id"`
	CreatedAt int64  `cbor:"created_at"`
}

func groupRecordKey(id domain.GroupID) []byte {
	return []byte(fmt.Sprintf("group:%020d", id))
}

func (g *GroupRepository) Create(name string, creator domain.UserID) (domain.Group, error) {
	id, err := g.nextID()
	if err != nil {
		return domain.Group{}, err
	}
	record := groupRecord{
		ID:        uint64(id),
		Name:      name,
		CreatorID: uint64(creator),
		CreatedAt: time.Now().UTC().UnixNano(),
	}
	data, err := cbor.Marshal(record)
	if err != nil {
		return domain.Group{}, fmt.Errorf("marshal failed: %w", err)
	}
	err = g.db.Update(func(txn *badger.Txn) error {
		return txn.Set(groupRecordKey(id), data)
	})
	if err != nil {
		return domain.Group{}, err
	}
	return toGroup(record), nil
}

func (g *GroupRepository) Get(id domain.GroupID) (domain.Group, error) {
	var record groupRecord
	err := g.db.View(func(txn *badger.Txn) error {
		return getGroupRecord(txn, id, &record)
	})
	if err != nil {
		return domain.Group{}, err
	}
	return toGroup(record), nil
}

// List returns all groups ascending by id. There is no membership
// filtering: every authenticated caller sees every group.
func (g *GroupRepository) List() ([]domain.Group, error) {
	groups := make([]domain.Group, 0)
	err := g.db.View(func(txn *badger.Txn) error {
		prefix := []byte("group:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record groupRecord
				if err := cbor.Unmarshal(val, &record); err != nil {
					return err
				}
				groups = append(groups, toGroup(record))
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
	return groups, nil
}

// Delete removes a group and cascades to its messages so that no message
// outlives the group it references. The creator check happens inside the
// same transaction as the removal, so a concurrent delete-vs-send either
// fails not-found (delete won) or lands just before the cascade sweeps it.
func (g *GroupRepository) Delete(id domain.GroupID, requester domain.UserID) error {
	return g.db.Update(func(txn *badger.Txn) error {
		var record groupRecord
		if err := getGroupRecord(txn, id, &record); err != nil {
			return err
		}
		if domain.UserID(record.CreatorID) != requester {
			return errors.ErrForbidden
		}
		if err := txn.Delete(groupRecordKey(id)); err != nil {
			return err
		}
		prefix := groupPrefix(id)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *GroupRepository) nextID() (domain.GroupID, error) {
	for {
		n, err := g.seq.Next()
		if err != nil {
			return 0, fmt.Errorf("group id allocation: %w", err)
		}
		if n != 0 {
			return domain.GroupID(n), nil
		}
	}
}

func getGroupRecord(txn *badger.Txn, id domain.GroupID, record *groupRecord) error {
	item, err := txn.Get(groupRecordKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrGroupNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return cbor.Unmarshal(val, record)
	})
}

func toGroup(record groupRecord) domain.Group {
	return domain.Group{
		ID:        domain.GroupID(record.ID),
		Name:      record.Name,
		CreatorID: domain.UserID(record.CreatorID),
		CreatedAt: time.Unix(0, record.CreatedAt).UTC(),
	}
}
