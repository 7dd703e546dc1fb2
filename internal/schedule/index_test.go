package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndex_Offsets(t *testing.T) {
	idx, err := BuildIndex(uuid.New(), makeItems(1000, 2000, 3000))

	require.NoError(t, err)
	require.Len(t, idx.Items, 3)

	assert.Equal(t, int64(0), idx.Offset(0))
	assert.Equal(t, int64(1000), idx.Offset(1))
	assert.Equal(t, int64(3000), idx.Offset(2))
	assert.Equal(t, int64(6000), idx.TotalDurationMs)
}

func TestBuildIndex_EmptyCatalog(t *testing.T) {
	idx, err := BuildIndex(uuid.New(), nil)

	assert.Nil(t, idx)
	assert.ErrorIs(t, err, ErrChannelEmpty)
}

func TestBuildIndex_DropsNonPositiveDurations(t *testing.T) {
	items := []Item{
		{ID: "a", Title: "A", DurationMs: 1000},
		{ID: "b", Title: "B", DurationMs: 0},
		{ID: "c", Title: "C", DurationMs: -500},
		{ID: "d", Title: "D", DurationMs: 2000},
	}

	idx, err := BuildIndex(uuid.New(), items)

	require.NoError(t, err)
	require.Len(t, idx.Items, 2)
	assert.Equal(t, "a", idx.Items[0].ID)
	assert.Equal(t, "d", idx.Items[1].ID)
	assert.Equal(t, int64(3000), idx.TotalDurationMs)
}

func TestBuildIndex_AllItemsInvalid(t *testing.T) {
	items := []Item{
		{ID: "a", Title: "A", DurationMs: 0},
		{ID: "b", Title: "B", DurationMs: -1},
	}

	idx, err := BuildIndex(uuid.New(), items)

	assert.Nil(t, idx)
	assert.ErrorIs(t, err, ErrChannelEmpty)
}

func TestLocatePosition_Boundaries(t *testing.T) {
	idx, err := BuildIndex(uuid.New(), makeItems(1000, 2000, 3000))
	require.NoError(t, err)

	// A position exactly on an item's start offset selects that item
	assert.Equal(t, 0, idx.LocatePosition(0))
	assert.Equal(t, 0, idx.LocatePosition(999))
	assert.Equal(t, 1, idx.LocatePosition(1000))
	assert.Equal(t, 1, idx.LocatePosition(2999))
	assert.Equal(t, 2, idx.LocatePosition(3000))
	assert.Equal(t, 2, idx.LocatePosition(5999))
}

func TestLocatePosition_SingleItem(t *testing.T) {
	idx, err := BuildIndex(uuid.New(), makeItems(5000))
	require.NoError(t, err)

	assert.Equal(t, 0, idx.LocatePosition(0))
	assert.Equal(t, 0, idx.LocatePosition(4999))
}
