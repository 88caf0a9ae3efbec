package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbol-world/internal/camera"
	"symbol-world/internal/symbol"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "viewer.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sample(updateID string) *symbol.Symbol {
	root := symbol.New(symbol.File, "main.go", "/src/main.go", 1, 80)
	root.UpdateID = updateID
	child := symbol.New(symbol.Function, "main", "/src/main.go", 3, 20)
	child.SetPosition(0, 20, 0)
	child.SetQuaternion(0, 0, 0, 1)
	root.AddChild(child)
	return root
}

func TestTreeRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	saved, err := s.SaveTree(ctx, sample("a"))
	require.NoError(t, err)
	assert.True(t, saved)

	got, err := s.LoadTree(ctx, "/src/main.go")
	require.NoError(t, err)
	if diff := cmp.Diff(sample("a"), got); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}

	files, err := s.Files(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/main.go"}, files)
}

func TestSaveTreeSkipsUpdateIDOnlyChanges(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.SaveTree(ctx, sample("first"))
	require.NoError(t, err)

	saved, err := s.SaveTree(ctx, sample("second"))
	require.NoError(t, err)
	assert.False(t, saved)
	got, err := s.LoadTree(ctx, "/src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "first", got.UpdateID)

	moved := sample("third")
	moved.Children[0].SetPosition(1, 19, 0)
	saved, err = s.SaveTree(ctx, moved)
	require.NoError(t, err)
	assert.True(t, saved)
	got, err = s.LoadTree(ctx, "/src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "third", got.UpdateID)
	assert.Equal(t, symbol.Position{X: 1, Y: 19}, *got.Children[0].Position)
}

func TestNotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.LoadTree(context.Background(), "missing.go")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.LoadLooking(context.Background(), "missing.go")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.SaveTree(context.Background(), nil)
	assert.Error(t, err)
}

func TestLookingRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	l := camera.Looking{
		Position:   symbol.Position{X: 1, Y: 2, Z: 3},
		Quaternion: symbol.Quaternion{X: 0.5, Y: 0.5, Z: 0.5, W: 0.5},
	}
	require.NoError(t, s.SaveLooking(ctx, "a.go", l))
	l.Position.Y = 9
	require.NoError(t, s.SaveLooking(ctx, "a.go", l))

	got, err := s.LoadLooking(ctx, "a.go")
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestMemoryStore(t *testing.T) {
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.SaveTree(context.Background(), sample("x"))
	require.NoError(t, err)
	_, err = s.LoadTree(context.Background(), "/src/main.go")
	assert.NoError(t, err)
}
