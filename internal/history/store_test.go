package history

import (
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncwallet_gui/internal/models"
)

func collect(t *testing.T, s Store) []models.RecentRequest {
	t.Helper()
	var rows []models.RecentRequest
	require.NoError(t, s.Walk(func(r models.RecentRequest) bool {
		rows = append(rows, r)
		return true
	}))
	return rows
}

func exerciseStore(t *testing.T, s Store) {
	n, err := s.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	req := models.PaymentRequest{Address: "addr-1", Label: "rent", Amount: btcutil.Amount(5000)}
	row, err := s.AddRequest(req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.ID)

	_, err = s.AddRequest(models.PaymentRequest{Address: "addr-2"})
	require.NoError(t, err)
	_, err = s.AddRequest(models.PaymentRequest{Address: "addr-3", Message: "hi"})
	require.NoError(t, err)

	rows := collect(t, s)
	require.Len(t, rows, 3)
	assert.Equal(t, "addr-3", rows[0].Request.Address)
	assert.Equal(t, "addr-2", rows[1].Request.Address)
	assert.Equal(t, "rent", rows[2].Request.Label)
	assert.Equal(t, btcutil.Amount(5000), rows[2].Request.Amount)

	var visited int
	require.NoError(t, s.Walk(func(models.RecentRequest) bool {
		visited++
		return false
	}))
	assert.Equal(t, 1, visited)

	n, err = s.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestLevelStore(t *testing.T) {
	s, err := OpenLevelStore(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestLevelStoreResumesIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	s, err := OpenLevelStore(path)
	require.NoError(t, err)
	_, err = s.AddRequest(models.PaymentRequest{Address: "a"})
	require.NoError(t, err)
	_, err = s.AddRequest(models.PaymentRequest{Address: "b"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenLevelStore(path)
	require.NoError(t, err)
	defer s.Close()

	row, err := s.AddRequest(models.PaymentRequest{Address: "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), row.ID)

	rows := collect(t, s)
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[0].Request.Address)
}

func TestPlainRequest(t *testing.T) {
	assert.True(t, models.PaymentRequest{Address: "x"}.IsPlain())
	assert.False(t, models.PaymentRequest{Label: "l"}.IsPlain())
	assert.False(t, models.PaymentRequest{Message: "m"}.IsPlain())
	assert.False(t, models.PaymentRequest{Amount: 1}.IsPlain())
}
