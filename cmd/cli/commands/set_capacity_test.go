package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCapacity(t *testing.T) {
	capacity, err := parseCapacity("4")
	require.NoError(t, err)
	require.NotNil(t, capacity)
	assert.Equal(t, 4, *capacity)

	capacity, err = parseCapacity("default")
	require.NoError(t, err)
	assert.Nil(t, capacity)

	for _, raw := range []string{"-1", "four", ""} {
		_, err = parseCapacity(raw)
		assert.Error(t, err, raw)
	}
}

func TestCapacityText(t *testing.T) {
	n := 3
	assert.Equal(t, "3", capacityText(&n))
	assert.Equal(t, "unlimited", capacityText(nil))
}
