package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbol-world/internal/bridge"
	"symbol-world/internal/camera"
	"symbol-world/internal/engineconfig"
	"symbol-world/internal/logger"
	"symbol-world/internal/store"
	"symbol-world/internal/symbol"
)

func writeTree(t *testing.T) (string, *symbol.Symbol) {
	t.Helper()
	root := symbol.New(symbol.File, "main.go", "/src/main.go", 1, 100)
	root.AddChild(symbol.New(symbol.Function, "main", "/src/main.go", 3, 22))
	root.AddChild(symbol.New(symbol.Variable, "x", "/src/main.go", 24, 24))
	text, err := symbol.Marshal(root)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path, root
}

func TestRunLayoutWithoutSteps(t *testing.T) {
	_, root := writeTree(t)
	var out bytes.Buffer
	err := runLayout(context.Background(), engineconfig.Default(), logger.NewMemory(), root, 0, &out, nil)
	require.NoError(t, err)

	got, err := symbol.Parse(out.String())
	require.NoError(t, err)
	assert.NotEmpty(t, got.UpdateID)
	require.Len(t, got.Children, 2)
	assert.Equal(t, symbol.Position{Y: 20}, *got.Children[0].Position)
	assert.Equal(t, symbol.Position{Y: 13.75}, *got.Children[1].Position)
}

func TestRunLayoutSettlesAboveGround(t *testing.T) {
	_, root := writeTree(t)
	st, err := store.Open(filepath.Join(t.TempDir(), "viewer.db"), nil)
	require.NoError(t, err)
	defer st.Close()

	var out bytes.Buffer
	require.NoError(t, runLayout(context.Background(), engineconfig.Default(), logger.NewMemory(), root, 300, &out, st))

	got, err := symbol.Parse(out.String())
	require.NoError(t, err)
	for _, c := range got.Children {
		assert.Greater(t, c.Position.Y, float32(0), "%s stays above the ground", c.Name)
	}
	stored, err := st.LoadTree(context.Background(), "/src/main.go")
	require.NoError(t, err)
	assert.Equal(t, got.UpdateID, stored.UpdateID)
}

func TestLayoutCommand(t *testing.T) {
	path, _ := writeTree(t)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"layout", "--tree", path, "--steps", "1", "--log", "", "--config", filepath.Join(t.TempDir(), "none.yaml")})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), `{"kind":0,"name":"main.go"`))
}

func TestLayoutCommandNeedsTree(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"layout", "--log", ""})
	assert.Error(t, cmd.Execute())
}

func TestHostViewerSendsTreeAndRecords(t *testing.T) {
	path, _ := writeTree(t)
	st, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()
	require.NoError(t, st.SaveLooking(ctx, "/src/main.go", camera.Looking{Position: symbol.Position{Y: 3}}))

	rec := bridge.NewRecorder(st, nil)
	log := logger.NewMemory()
	srv := httptest.NewServer(bridge.Handler(func(ws *bridge.WebSocket) {
		hostViewer(ctx, ws, rec, path, log)
	}, nil))
	defer srv.Close()

	client, err := bridge.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()
	got := make(chan bridge.Message, 8)
	client.OnMessage(func(m bridge.Message) { got <- m })

	next := func() bridge.Message {
		select {
		case m := <-got:
			return m
		case <-time.After(5 * time.Second):
			t.Fatal("no message from host")
			return nil
		}
	}
	show, ok := next().(bridge.ShowSymbolTree)
	require.True(t, ok)
	assert.Contains(t, show.Value, `"name":"main.go"`)
	assert.Equal(t, bridge.RestoreCamera{Looking: camera.Looking{Position: symbol.Position{Y: 3}}}, next())

	require.NoError(t, client.PostMessage(bridge.SaveSymbol{Value: show.Value}))
	require.Eventually(t, func() bool {
		_, err := st.LoadTree(ctx, "/src/main.go")
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
}
