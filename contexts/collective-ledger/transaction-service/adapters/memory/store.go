package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"commonfund/contexts/collective-ledger/transaction-service/domain/entities"
	domainerrors "commonfund/contexts/collective-ledger/transaction-service/domain/errors"
	"commonfund/contexts/collective-ledger/transaction-service/ports"
	"commonfund/internal/shared/listing"
)

// Store is the in-memory adapter behind the transaction-service
// repositories. State transitions run under the write lock, mirroring the
// compare-and-swap the database adapter performs.
type Store struct {
	mu sync.RWMutex

	transactions   map[int64]entities.Transaction
	activities     map[int64]entities.Activity
	nextTxID       int64
	nextActivityID int64
}

func NewStore() *Store {
	return &Store{
		transactions: make(map[int64]entities.Transaction),
		activities:   make(map[int64]entities.Activity),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) CreateTransaction(_ context.Context, tx entities.Transaction) (entities.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTxID++
	tx.ID = s.nextTxID
	s.transactions[tx.ID] = tx
	return tx, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (entities.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return entities.Transaction{}, domainerrors.ErrTransactionNotFound
	}
	return tx, nil
}

func (s *Store) TransitionState(_ context.Context, id int64, from, to entities.State, update ports.StateUpdate) (entities.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok {
		return entities.Transaction{}, domainerrors.ErrTransactionNotFound
	}
	if tx.State != from {
		return entities.Transaction{}, &domainerrors.StateConflictError{Required: from, Actual: tx.State}
	}

	tx.State = to
	if update.PayKey != nil {
		tx.PayKey = *update.PayKey
	}
	if update.Approved != nil {
		tx.Approved = *update.Approved
	}
	tx.UpdatedAt = time.Now().UTC()
	s.transactions[id] = tx
	return tx, nil
}

func (s *Store) AttributeUser(_ context.Context, id int64, userID *int64) (entities.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok {
		return entities.Transaction{}, domainerrors.ErrTransactionNotFound
	}
	tx.UserID = userID
	tx.UpdatedAt = time.Now().UTC()
	s.transactions[id] = tx
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok {
		return domainerrors.ErrTransactionNotFound
	}
	if tx.State != entities.StateCreated && tx.State != entities.StateApproved {
		return domainerrors.ErrSettledTransaction
	}

	delete(s.transactions, id)
	for activityID, activity := range s.activities {
		if activity.TransactionID == id {
			delete(s.activities, activityID)
		}
	}
	return nil
}

func (s *Store) ListGroupTransactions(_ context.Context, groupID int64, page listing.Page) ([]entities.Transaction, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []entities.Transaction
	for _, tx := range s.transactions {
		if tx.GroupID != groupID {
			continue
		}
		if page.Cursor && tx.ID <= page.SinceID {
			continue
		}
		items = append(items, tx)
	}
	total := int64(len(items))

	if page.Cursor {
		sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
		return items, total, nil
	}

	sortTransactions(items, page.Sort)
	return window(items, page), total, nil
}

func (s *Store) AppendActivity(_ context.Context, activity entities.Activity) (entities.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextActivityID++
	activity.ID = s.nextActivityID
	s.activities[activity.ID] = activity
	return activity, nil
}

func (s *Store) ListGroupActivities(_ context.Context, groupID int64, page listing.Page) ([]entities.Activity, int64, error) {
	return s.listActivities(func(a entities.Activity) bool { return a.GroupID == groupID }, page)
}

func (s *Store) ListUserActivities(_ context.Context, userID int64, page listing.Page) ([]entities.Activity, int64, error) {
	return s.listActivities(func(a entities.Activity) bool {
		return a.UserID != nil && *a.UserID == userID
	}, page)
}

func (s *Store) listActivities(match func(entities.Activity) bool, page listing.Page) ([]entities.Activity, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []entities.Activity
	for _, activity := range s.activities {
		if !match(activity) {
			continue
		}
		if page.Cursor && activity.ID <= page.SinceID {
			continue
		}
		items = append(items, activity)
	}
	total := int64(len(items))

	if page.Cursor {
		sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
		return items, total, nil
	}

	sortActivities(items, page.Sort)
	return windowActivities(items, page), total, nil
}

func sortTransactions(items []entities.Transaction, by listing.Sort) {
	asc := by.Direction == listing.DirectionAsc
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var less, equal bool
		switch by.Key {
		case "updated_at":
			less, equal = a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		case "amount":
			less, equal = a.Amount < b.Amount, a.Amount == b.Amount
		case "id":
			less, equal = a.ID < b.ID, false
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			// Stable pages need a deterministic tie-break.
			return a.ID < b.ID
		}
		if asc {
			return less
		}
		return !less
	})
}

func sortActivities(items []entities.Activity, by listing.Sort) {
	asc := by.Direction == listing.DirectionAsc
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		less := a.CreatedAt.Before(b.CreatedAt)
		if asc {
			return less
		}
		return !less
	})
}

func window(items []entities.Transaction, page listing.Page) []entities.Transaction {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func windowActivities(items []entities.Activity, page listing.Page) []entities.Activity {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
