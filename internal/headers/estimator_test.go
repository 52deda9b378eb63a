package headers

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
)

func TestEstimateHeadersLeftMainnet(t *testing.T) {
	e := NewEstimator(&chaincfg.MainNetParams)

	assert.Equal(t, 10*time.Minute, e.Spacing(800000))
	assert.Equal(t, 0, e.EstimateHeadersLeft(599, 800000))
	assert.Equal(t, 1, e.EstimateHeadersLeft(600, 800000))
	assert.Equal(t, 144, e.EstimateHeadersLeft(24*60*60, 800000))
	assert.Equal(t, 0, e.EstimateHeadersLeft(-3600, 800000))
}

func TestEstimateHeadersLeftSchedule(t *testing.T) {
	e := NewEstimator(&chaincfg.MainNetParams,
		SpacingChange{Height: 2000, Spacing: 32 * time.Second},
		SpacingChange{Height: 1000, Spacing: 2 * time.Minute},
		SpacingChange{Height: 5000, Spacing: 0},
	)

	assert.Equal(t, 10*time.Minute, e.Spacing(999))
	assert.Equal(t, 2*time.Minute, e.Spacing(1000))
	assert.Equal(t, 2*time.Minute, e.Spacing(1999))
	assert.Equal(t, 32*time.Second, e.Spacing(6000))
	assert.Equal(t, 100, e.EstimateHeadersLeft(3200, 2500))
}
