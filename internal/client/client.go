// ABOUTME: WebSocket client for the speech synthesis service
// ABOUTME: Sends Speak/Flush/Close commands and routes inbound audio to playback
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/voxpipe/voxpipe-go/internal/protocol"
	"github.com/voxpipe/voxpipe-go/internal/record"
)

// ErrClosed is returned by Speak and Flush after Close has been called.
var ErrClosed = errors.New("client: connection closed")

// Config holds the connection parameters for the synthesis service.
type Config struct {
	// URL is the full websocket endpoint, including any query parameters
	// negotiating model, encoding, and sample rate.
	URL string

	// APIKey is the authorization credential attached at connect time.
	APIKey string
}

// Player consumes audio fragments as they arrive and is stopped exactly once
// at session end. Satisfied by *speaker.Engine.
type Player interface {
	Enqueue(fragment []byte)
	Stop() error
}

// Client holds one streaming session with the synthesis service. Control
// commands go out as JSON text frames in call order; a background receive
// loop demultiplexes inbound text (status) from binary (audio) frames,
// forwarding audio to the player and mirroring it into the recording log.
//
// Session states: open (receive loop running), closing (exit flag set, Close
// frame in flight), closed (connection closed, loop joined, finalization
// done). A connection failure moves open directly to closed, still running
// finalization, so a mid-utterance drop yields a playable partial recording.
type Client struct {
	conn     *websocket.Conn
	player   Player
	exporter record.Exporter
	logger   *log.Logger

	// writeMu serializes control frames; the websocket permits one
	// concurrent writer.
	writeMu sync.Mutex

	exit     atomic.Bool
	recvDone chan struct{}
	finalize sync.Once

	// recorded is touched only by the receive goroutine.
	recorded [][]byte
}

// Dial connects to the synthesis service and starts the receive loop. The
// exporter runs once at session end with every fragment received.
func Dial(cfg Config, player Player, exporter record.Exporter) (*Client, error) {
	header := http.Header{}
	header.Set("Authorization", "Token "+cfg.APIKey)

	conn, resp, err := websocket.DefaultDialer.Dial(cfg.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %s)", cfg.URL, err, resp.Status)
		}
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}

	c := &Client{
		conn:     conn,
		player:   player,
		exporter: exporter,
		logger:   log.WithPrefix("client"),
		recvDone: make(chan struct{}),
	}

	go c.receiveLoop()

	return c, nil
}

// Speak requests synthesis of text. It does not block for a response and may
// be called repeatedly to stream multiple utterances over the same
// connection.
func (c *Client) Speak(text string) error {
	return c.send(protocol.Speak(text))
}

// Flush asks the service to emit any buffered audio for prior Speak commands
// immediately.
func (c *Client) Flush() error {
	return c.send(protocol.Flush())
}

// Close ends the session: it sets the exit flag, sends a Close frame (best
// effort), closes the connection, and waits for the receive loop — and with
// it the finalization — to finish. Speak and Flush fail after Close returns.
func (c *Client) Close() error {
	if !c.exit.CompareAndSwap(false, true) {
		return ErrClosed
	}

	// Best effort: the service may already be gone.
	payload, err := json.Marshal(protocol.Close())
	if err == nil {
		c.writeMu.Lock()
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			c.logger.Debug("close frame not delivered", "err", err)
		}
		c.writeMu.Unlock()
	}

	err = c.conn.Close()
	<-c.recvDone

	if err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	return nil
}

func (c *Client) send(msg protocol.Control) error {
	if c.exit.Load() {
		return ErrClosed
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s control frame: %w", msg.Type, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("send %s control frame: %w", msg.Type, err)
	}
	return nil
}

// receiveLoop reads inbound frames until the exit flag is set or the
// connection ends, then finalizes the session.
func (c *Client) receiveLoop() {
	defer close(c.recvDone)
	defer c.finalizeSession()

	for !c.exit.Load() {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.exit.Load() {
				c.logger.Error("read failed", "err", err)
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			status := protocol.ParseStatus(data)
			c.logger.Info("service status", "type", status.Type, "payload", string(status.Raw))
		case websocket.BinaryMessage:
			c.recorded = append(c.recorded, data)
			c.player.Enqueue(data)
		}
	}
}

// finalizeSession stops playback and exports the recording log. It runs
// exactly once per session, whether the loop ended via Close or a connection
// failure.
func (c *Client) finalizeSession() {
	c.finalize.Do(func() {
		if err := c.player.Stop(); err != nil {
			c.logger.Error("stop playback failed", "err", err)
		}
		if err := c.exporter.Export(c.recorded); err != nil {
			c.logger.Error("recording export failed", "err", err)
		}
	})
}
