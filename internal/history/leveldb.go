package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"syncwallet_gui/internal/models"
)

var requestPrefix = []byte("request:")

func requestKey(id int64) []byte {
	key := make([]byte, len(requestPrefix)+8)
	copy(key, requestPrefix)
	binary.BigEndian.PutUint64(key[len(requestPrefix):], uint64(id))
	return key
}

// LevelStore persists the history in LevelDB. Keys sort by id, so iteration
// order is insertion order.
type LevelStore struct {
	conn   *leveldb.DB
	nextID int64
	now    func() time.Time
}

// OpenLevelStore opens (or creates) a LevelDB history at path.
func OpenLevelStore(path string) (*LevelStore, error) {
	conn, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open request history %s: %w", path, err)
	}
	s := &LevelStore{conn: conn, nextID: 1, now: time.Now}

	iter := conn.NewIterator(util.BytesPrefix(requestPrefix), nil)
	if iter.Last() {
		s.nextID = int64(binary.BigEndian.Uint64(iter.Key()[len(requestPrefix):])) + 1
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to scan request history: %w", err)
	}
	return s, nil
}

// Close safely closes the LevelDB connection
func (s *LevelStore) Close() error {
	return s.conn.Close()
}

func (s *LevelStore) AddRequest(req models.PaymentRequest) (models.RecentRequest, error) {
	row := models.RecentRequest{ID: s.nextID, Date: s.now().UTC(), Request: req}
	data, err := json.Marshal(row)
	if err != nil {
		return models.RecentRequest{}, err
	}
	if err := s.conn.Put(requestKey(row.ID), data, nil); err != nil {
		return models.RecentRequest{}, fmt.Errorf("failed to store request %d: %w", row.ID, err)
	}
	s.nextID++
	return row, nil
}

func (s *LevelStore) Walk(fn func(models.RecentRequest) bool) error {
	iter := s.conn.NewIterator(util.BytesPrefix(requestPrefix), nil)
	defer iter.Release()

	for ok := iter.Last(); ok; ok = iter.Prev() {
		var row models.RecentRequest
		if err := json.Unmarshal(iter.Value(), &row); err != nil {
			return fmt.Errorf("failed to decode request %x: %w", iter.Key(), err)
		}
		if !fn(row) {
			break
		}
	}
	return iter.Error()
}

func (s *LevelStore) Len() (int, error) {
	iter := s.conn.NewIterator(util.BytesPrefix(requestPrefix), nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}
