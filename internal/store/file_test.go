package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crunky0/cs308project/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "guest-cart.json")
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	sut := NewFileStore(slotPath(t))
	lines, err := sut.Load()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := slotPath(t)
	sut := NewFileStore(path)

	saved := []domain.GuestLine{
		{ProductID: 101, Quantity: 1},
		{ProductID: 102, Quantity: 2},
	}
	require.NoError(t, sut.Save(saved))

	// A fresh store on the same path simulates a restart.
	reloaded := NewFileStore(path)
	lines, err := reloaded.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, lines)
}

func TestSave_OverwritesPreviousSlot(t *testing.T) {
	sut := NewFileStore(slotPath(t))

	require.NoError(t, sut.Save([]domain.GuestLine{{ProductID: 1, Quantity: 5}}))
	require.NoError(t, sut.Save([]domain.GuestLine{{ProductID: 2, Quantity: 1}}))

	lines, err := sut.Load()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)
}

func TestClear_RemovesSlot(t *testing.T) {
	path := slotPath(t)
	sut := NewFileStore(path)

	require.NoError(t, sut.Save([]domain.GuestLine{{ProductID: 1, Quantity: 1}}))
	require.NoError(t, sut.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	lines, errLoad := sut.Load()
	require.NoError(t, errLoad)
	assert.Empty(t, lines)
}

func TestClear_MissingFileIsNoop(t *testing.T) {
	sut := NewFileStore(slotPath(t))
	require.NoError(t, sut.Clear())
}

func TestLoad_CorruptSlotFails(t *testing.T) {
	path := slotPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	sut := NewFileStore(path)
	_, err := sut.Load()
	require.ErrorContains(t, err, "parse guest slot")
}
