package history

import (
	"time"

	"syncwallet_gui/internal/models"
)

// Store is an append-only history of payment requests.
type Store interface {
	// AddRequest stores a copy of req and returns the stored row.
	AddRequest(req models.PaymentRequest) (models.RecentRequest, error)
	// Walk visits rows newest to oldest until fn returns false.
	Walk(fn func(models.RecentRequest) bool) error
	Len() (int, error)
}

// MemoryStore keeps the history in process memory.
type MemoryStore struct {
	rows   []models.RecentRequest
	nextID int64
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, now: time.Now}
}

func (m *MemoryStore) AddRequest(req models.PaymentRequest) (models.RecentRequest, error) {
	row := models.RecentRequest{ID: m.nextID, Date: m.now(), Request: req}
	m.nextID++
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *MemoryStore) Walk(fn func(models.RecentRequest) bool) error {
	for i := len(m.rows) - 1; i >= 0; i-- {
		if !fn(m.rows[i]) {
			return nil
		}
	}
	return nil
}

func (m *MemoryStore) Len() (int, error) { return len(m.rows), nil }
