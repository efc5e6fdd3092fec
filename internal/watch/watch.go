// Package watch streams new blocks live over the CometBFT websocket, for
// the checker's watch mode. One subscription, no reconnect state kept
// between runs.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tellor-io/layer-profitability-checker/internal/types"
)

// BlockWatcher subscribes to NewBlock events on a node's websocket
// endpoint and delivers samples in arrival order.
type BlockWatcher struct {
	endpoint string
}

// NewBlockWatcher builds a watcher for the node's RPC endpoint; the
// http(s) scheme is rewritten to ws(s) and /websocket appended.
func NewBlockWatcher(rpcEndpoint string) *BlockWatcher {
	ws := strings.TrimRight(rpcEndpoint, "/")
	ws = strings.Replace(ws, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "ws://", 1)
	return &BlockWatcher{endpoint: ws + "/websocket"}
}

type subscribeRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	ID      int               `json:"id"`
	Params  map[string]string `json:"params"`
}

type newBlockMessage struct {
	Result struct {
		Data struct {
			Value struct {
				Block struct {
					Header struct {
						Height string    `json:"height"`
						Time   time.Time `json:"time"`
					} `json:"header"`
				} `json:"block"`
			} `json:"value"`
		} `json:"data"`
	} `json:"result"`
}

// Watch connects, subscribes to NewBlock events and sends each block onto
// out until the context ends. The channel is closed on return.
func (w *BlockWatcher) Watch(ctx context.Context, out chan<- types.BlockSample) error {
	defer close(out)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.endpoint, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", w.endpoint, err)
	}
	defer conn.Close()

	sub := subscribeRequest{
		JSONRPC: "2.0",
		Method:  "subscribe",
		ID:      1,
		Params:  map[string]string{"query": "tm.event='NewBlock'"},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribing: %w", err)
	}
	log.Printf("[watch] subscribed to new blocks at %s", w.endpoint)

	// Unblock ReadMessage when the context ends. The done channel releases
	// the goroutine when Watch returns for any other reason.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading block event: %w", err)
		}

		var msg newBlockMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[watch] skipping unparsable message: %v", err)
			continue
		}
		header := msg.Result.Data.Value.Block.Header
		if header.Height == "" {
			// Subscription confirmations and heartbeats carry no block.
			continue
		}
		height, err := strconv.ParseInt(header.Height, 10, 64)
		if err != nil {
			log.Printf("[watch] skipping block with bad height %q: %v", header.Height, err)
			continue
		}

		select {
		case out <- types.BlockSample{Height: height, Time: header.Time}:
		case <-ctx.Done():
			return nil
		}
	}
}
