package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPipeDeliversToPeer(t *testing.T) {
	host, viewer := Pipe()
	var atHost, atViewer []Message
	host.OnMessage(func(m Message) { atHost = append(atHost, m) })
	viewer.OnMessage(func(m Message) { atViewer = append(atViewer, m) })

	require.NoError(t, host.PostMessage(ShowSymbolTree{Value: "t"}))
	require.NoError(t, viewer.PostMessage(DebugLog{Message: "d"}))

	assert.Equal(t, []Message{ShowSymbolTree{Value: "t"}}, atViewer)
	assert.Equal(t, []Message{DebugLog{Message: "d"}}, atHost)
}

func TestPipeClose(t *testing.T) {
	host, viewer := Pipe()
	require.NoError(t, viewer.Close())
	assert.ErrorIs(t, host.PostMessage(CenterCamera{}), ErrClosed)
	assert.ErrorIs(t, viewer.PostMessage(CenterCamera{}), ErrClosed)
}
