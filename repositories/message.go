//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"courier/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	AppendDirect(sender, receiver domain.UserID, content string) (domain.Message, error)
	AppendGroup(sender domain.UserID, group domain.GroupID, content string) (domain.Message, error)
	DirectThread(a, b domain.UserID) ([]domain.Message, error)
	GroupThread(group domain.GroupID) ([]domain.Message, error)
}

type MessageRepository struct {
	db *badger.DB
}

func NewMessageRepository(db *badger.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// messageRecord is the CBOR shape persisted in Badger. Exactly one of
// ReceiverID/GroupID is non-zero; the domain target variant is rebuilt
// from whichever is set.
type messageRecord struct {
	ID         string `cbor:"id"`
	SenderID   uint64 `cbor:"sender_id"`
	ReceiverID uint64 `cbor:"receiver_id,omitempty"`
	GroupID    uint64 `cbor:"group_id,omitempty"`
	Content    string `cbor:"content"`
	At         int64  `cbor:"at"`
}

// directKey orders a pair of users canonically so that both directions of
// a conversation share one key prefix. The 19-digit zero-padded nanosecond
// timestamp keeps keys chronologically sorted under lexicographic order,
// with the message uuid as a stable tie-breaker.
func directKey(a, b domain.UserID, at time.Time, id uuid.UUID) []byte {
	low, high := a, b
	if low > high {
		low, high = high, low
	}
	return []byte(fmt.Sprintf("dm:%020d:%020d:%019d:%s", low, high, at.UnixNano(), id))
}

func directPrefix(a, b domain.UserID) []byte {
	low, high := a, b
	if low > high {
		low, high = high, low
	}
	return []byte(fmt.Sprintf("dm:%020d:%020d:", low, high))
}

func groupKey(group domain.GroupID, at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("gm:%020d:%019d:%s", group, at.UnixNano(), id))
}

func groupPrefix(group domain.GroupID) []byte {
	return []byte(fmt.Sprintf("gm:%020d:", group))
}

// AppendDirect persists a direct message. Existence of both users is the
// caller's responsibility; the store does not re-validate it.
func (m *MessageRepository) AppendDirect(sender, receiver domain.UserID, content string) (domain.Message, error) {
	message := domain.Message{
		ID:        uuid.New(),
		SenderID:  sender,
		Target:    domain.DirectTarget(receiver),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	key := directKey(sender, receiver, message.CreatedAt, message.ID)
	return message, m.append(key, message)
}

// AppendGroup persists a group message. The caller must have confirmed
// the group exists.
func (m *MessageRepository) AppendGroup(sender domain.UserID, group domain.GroupID, content string) (domain.Message, error) {
	message := domain.Message{
		ID:        uuid.New(),
		SenderID:  sender,
		Target:    domain.GroupTarget(group),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	key := groupKey(group, message.CreatedAt, message.ID)
	return message, m.append(key, message)
}

func (m *MessageRepository) append(key []byte, message domain.Message) error {
	data, err := cbor.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// DirectThread returns every message exchanged between a and b, ascending
// by creation time. The canonical pair prefix makes the query symmetric:
// (a,b) and (b,a) scan the same range, so neither side is assumed to have
// originated any particular message.
func (m *MessageRepository) DirectThread(a, b domain.UserID) ([]domain.Message, error) {
	return m.scan(directPrefix(a, b))
}

// GroupThread returns the group's messages ascending by creation time.
func (m *MessageRepository) GroupThread(group domain.GroupID) ([]domain.Message, error) {
	return m.scan(groupPrefix(group))
}

func (m *MessageRepository) scan(prefix []byte) ([]domain.Message, error) {
	messages := make([]domain.Message, 0)
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record messageRecord
				if err := cbor.Unmarshal(val, &record); err != nil {
					return err
				}
				message, err := toMessage(record)
				if err != nil {
					return err
				}
				messages = append(messages, message)
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
	return messages, nil
}

func fromMessage(message domain.Message) messageRecord {
	record := messageRecord{
		ID:       message.ID.String(),
		SenderID: uint64(message.SenderID),
		Content:  message.Content,
		At:       message.CreatedAt.UnixNano(),
	}
	if receiver, ok := message.Target.Direct(); ok {
		record.ReceiverID = uint64(receiver)
	}
	if group, ok := message.Target.Group(); ok {
		record.GroupID = uint64(group)
	}
	return record
}

func toMessage(record messageRecord) (domain.Message, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Message{}, err
	}
	target := domain.DirectTarget(domain.UserID(record.ReceiverID))
	if record.GroupID != 0 {
		target = domain.GroupTarget(domain.GroupID(record.GroupID))
	}
	return domain.Message{
		ID:        id,
		SenderID:  domain.UserID(record.SenderID),
		Target:    target,
		Content:   record.Content,
		CreatedAt: time.Unix(0, record.At).UTC(),
	}, nil
}
