package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistryRegister(t *testing.T) {
	ctx := context.Background()
	reg := CreateMemoryRegistry()

	isNew, err := reg.Register(ctx, "NA1_1")
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = reg.Register(ctx, "NA1_1")
	require.NoError(t, err)
	assert.False(t, isNew)
}

// Membership is monotonic: the size never decreases and always equals the
// count of distinct ids ever registered.
func TestMemoryRegistrySizeMonotonic(t *testing.T) {
	ctx := context.Background()
	reg := CreateMemoryRegistry()

	sequence := []string{"NA1_1", "NA1_2", "NA1_1", "NA1_3", "NA1_2", "NA1_1"}
	distinct := make(map[string]struct{})

	var lastSize int64
	for _, matchId := range sequence {
		_, err := reg.Register(ctx, matchId)
		require.NoError(t, err)
		distinct[matchId] = struct{}{}

		size, err := reg.Size(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, size, lastSize)
		assert.Equal(t, int64(len(distinct)), size)
		lastSize = size
	}
}

func TestMemoryRegistrySeed(t *testing.T) {
	ctx := context.Background()
	reg := CreateMemoryRegistry()

	require.NoError(t, reg.Seed(ctx, []string{"NA1_1", "NA1_2"}))

	// Seeded ids are not new.
	isNew, err := reg.Register(ctx, "NA1_1")
	require.NoError(t, err)
	assert.False(t, isNew)

	size, err := reg.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)
}
