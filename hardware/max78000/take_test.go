package max78000

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakePeripheralsIsOneShot(t *testing.T) {
	p, err := TakePeripherals()
	require.NoError(t, err)
	require.NotNil(t, p)

	second, err := TakePeripherals()
	assert.Nil(t, second)
	assert.ErrorIs(t, err, ErrPeripheralsTaken)
}
