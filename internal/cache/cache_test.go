package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	defer c.Close()

	fetched := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	require.NoError(t, c.Save([]byte(`{"plans":[]}`), fetched))

	data, at, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, `{"plans":[]}`, string(data))
	assert.True(t, at.Equal(fetched))
}

func TestSaveReplacesWholesale(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Save([]byte(`first`), time.Now()))
	require.NoError(t, c.Save([]byte(`second`), time.Now()))

	data, _, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLoadEmpty(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	defer c.Close()

	_, _, err = c.Load()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Save([]byte(`persisted`), time.Now()))
	require.NoError(t, c.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer c2.Close()
	data, _, err := c2.Load()
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(data))
}
