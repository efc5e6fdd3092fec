package watch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// newBlockServer upgrades the connection, acknowledges the subscription and
// streams count NewBlock events before closing.
func newBlockServer(t *testing.T, count int) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))

		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		for i := 0; i < count; i++ {
			msg := fmt.Sprintf(
				`{"result":{"data":{"value":{"block":{"header":{"height":"%d","time":"%s"}}}}}}`,
				101+i, base.Add(time.Duration(i)*2*time.Second).Format(time.RFC3339),
			)
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
	}))
}

func TestWatchDeliversBlocksInOrder(t *testing.T) {
	srv := newBlockServer(t, 3)
	defer srv.Close()

	out := make(chan types.BlockSample, 8)
	err := NewBlockWatcher(srv.URL).Watch(context.Background(), out)
	// The server hangs up after the last block; that surfaces as an error.
	require.Error(t, err)

	var heights []int64
	for sample := range out {
		heights = append(heights, sample.Height)
	}
	assert.Equal(t, []int64{101, 102, 103}, heights)
}

func TestWatchStopsOnContextCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	hold := make(chan struct{})
	defer close(hold)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.ReadMessage()
		<-hold
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan types.BlockSample, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- NewBlockWatcher(srv.URL).Watch(ctx, out)
	}()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on context cancel")
	}
}

func TestWatchReleasesGoroutinesOnConnectionError(t *testing.T) {
	srv := newBlockServer(t, 1)
	defer srv.Close()

	before := runtime.NumGoroutine()

	// Each call ends on the server hangup, not on context cancellation; the
	// context-watching goroutine must not linger afterwards.
	for i := 0; i < 5; i++ {
		out := make(chan types.BlockSample, 4)
		err := NewBlockWatcher(srv.URL).Watch(context.Background(), out)
		require.Error(t, err)
		for range out {
		}
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 2*time.Second, 50*time.Millisecond)
}
