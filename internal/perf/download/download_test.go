package download

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "results")
	d, err := NewDir(root)
	require.NoError(t, err)

	require.NoError(t, d.TriggerDownload("react-select.json", []byte(`{"storyName":"React select"}`)))

	data, err := ReadFile(d.Path("react-select.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"storyName":"React select"}`, string(data))

	t.Run("keeps writes inside the directory", func(t *testing.T) {
		require.NoError(t, d.TriggerDownload("../escape.json", []byte(`{}`)))
		_, err := os.Stat(filepath.Join(root, "escape.json"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(filepath.Dir(root), "escape.json"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	_, ok := m.Last()
	assert.False(t, ok)

	data := []byte("first")
	require.NoError(t, m.TriggerDownload("a.json", data))
	data[0] = 'X'

	f, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, "a.json", f.Name)
	assert.Equal(t, "first", string(f.Data))

	require.NoError(t, m.TriggerDownload("b.json", []byte("second")))
	f, _ = m.Last()
	assert.Equal(t, "b.json", f.Name)
}

type failingTarget struct{}

func (failingTarget) TriggerDownload(string, []byte) error {
	return errors.New("disk full")
}

func TestTee(t *testing.T) {
	mem := NewMemory()
	d, err := NewDir(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, Tee{mem, d}.TriggerDownload("a.json", []byte(`{}`)))
	f, ok := mem.Last()
	require.True(t, ok)
	assert.Equal(t, "a.json", f.Name)
	_, err = os.Stat(d.Path("a.json"))
	assert.NoError(t, err)

	other := NewMemory()
	err = Tee{failingTarget{}, other}.TriggerDownload("b.json", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	_, ok = other.Last()
	assert.True(t, ok)
}
