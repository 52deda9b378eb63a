package qr

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeProducesPNG(t *testing.T) {
	e := NewEncoder(128)

	data, err := e.Encode("bitcoin:BC1QAR0SRRR7XFKVY5L643LYDNW9RE59GTZZWF5MDQ")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestEncodeRejectsEmpty(t *testing.T) {
	_, err := NewEncoder(0).Encode("")
	assert.Error(t, err)
	assert.Equal(t, DefaultSize, NewEncoder(0).Size)
}
