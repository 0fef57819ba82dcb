// ABOUTME: Tests for the synthesis stream client
// ABOUTME: Control framing, demuxing, finalization, and shutdown bounds
package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlayer records enqueued fragments and Stop calls.
type fakePlayer struct {
	mu        sync.Mutex
	fragments [][]byte
	stops     int
}

func (p *fakePlayer) Enqueue(fragment []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fragments = append(p.fragments, fragment)
}

func (p *fakePlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
	return nil
}

func (p *fakePlayer) snapshot() ([][]byte, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	frags := make([][]byte, len(p.fragments))
	copy(frags, p.fragments)
	return frags, p.stops
}

// fakeExporter counts Export invocations.
type fakeExporter struct {
	mu        sync.Mutex
	calls     int
	fragments [][]byte
}

func (e *fakeExporter) Export(fragments [][]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.fragments = fragments
	return nil
}

func (e *fakeExporter) snapshot() (int, [][]byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls, e.fragments
}

// synthServer is a stand-in synthesis service over httptest.
type synthServer struct {
	t        *testing.T
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	authHdr  string
	received []string
	conn     *websocket.Conn
	ready    chan struct{}
}

func newSynthServer(t *testing.T) *synthServer {
	s := &synthServer{t: t, ready: make(chan struct{})}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

func (s *synthServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.authHdr = r.Header.Get("Authorization")
	s.mu.Unlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	close(s.ready)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage {
			s.mu.Lock()
			s.received = append(s.received, string(data))
			s.mu.Unlock()
		}
	}
}

func (s *synthServer) url() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http")
}

func (s *synthServer) waitReady() *websocket.Conn {
	select {
	case <-s.ready:
	case <-time.After(2 * time.Second):
		s.t.Fatal("server never accepted a connection")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *synthServer) frames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.received))
	copy(out, s.received)
	return out
}

func (s *synthServer) auth() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authHdr
}

func dialTest(t *testing.T, srv *synthServer) (*Client, *fakePlayer, *fakeExporter) {
	t.Helper()
	player := &fakePlayer{}
	exporter := &fakeExporter{}
	c, err := Dial(Config{URL: srv.url(), APIKey: "secret-key"}, player, exporter)
	require.NoError(t, err)
	srv.waitReady()
	return c, player, exporter
}

func TestControlFramesInCallOrder(t *testing.T) {
	srv := newSynthServer(t)
	c, _, _ := dialTest(t, srv)

	require.NoError(t, c.Speak("Hello"))
	require.NoError(t, c.Speak("World"))
	require.NoError(t, c.Flush())
	require.NoError(t, c.Close())

	require.Eventually(t, func() bool {
		return len(srv.frames()) >= 4
	}, 2*time.Second, 5*time.Millisecond)

	frames := srv.frames()
	assert.JSONEq(t, `{"type":"Speak","text":"Hello"}`, frames[0])
	assert.JSONEq(t, `{"type":"Speak","text":"World"}`, frames[1])
	assert.JSONEq(t, `{"type":"Flush"}`, frames[2])
	assert.JSONEq(t, `{"type":"Close"}`, frames[3])
	assert.Equal(t, "Token secret-key", srv.auth())
}

func TestBinaryFramesForwardedAndRecorded(t *testing.T) {
	srv := newSynthServer(t)
	c, player, exporter := dialTest(t, srv)

	conn := srv.waitReady()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"Metadata"}`)))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{4, 5}))

	require.Eventually(t, func() bool {
		frags, _ := player.snapshot()
		return len(frags) == 2
	}, 2*time.Second, 5*time.Millisecond)

	frags, _ := player.snapshot()
	assert.Equal(t, [][]byte{{1, 2, 3}, {4, 5}}, frags,
		"binary frames must reach the player in arrival order")

	require.NoError(t, c.Close())

	calls, recorded := exporter.snapshot()
	assert.Equal(t, 1, calls)
	assert.Equal(t, [][]byte{{1, 2, 3}, {4, 5}}, recorded,
		"every received fragment must be in the exported recording")
}

func TestFinalizationOnceOnClose(t *testing.T) {
	srv := newSynthServer(t)
	c, player, exporter := dialTest(t, srv)

	require.NoError(t, c.Close())

	calls, _ := exporter.snapshot()
	_, stops := player.snapshot()
	assert.Equal(t, 1, calls, "export must run exactly once")
	assert.Equal(t, 1, stops, "playback must be stopped exactly once")

	// A second Close reports the session closed and must not re-finalize.
	assert.ErrorIs(t, c.Close(), ErrClosed)
	calls, _ = exporter.snapshot()
	assert.Equal(t, 1, calls)
}

func TestFinalizationOnceOnServerDrop(t *testing.T) {
	srv := newSynthServer(t)
	_, player, exporter := dialTest(t, srv)

	conn := srv.waitReady()
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{9, 9}))
	conn.Close()

	require.Eventually(t, func() bool {
		calls, _ := exporter.snapshot()
		return calls == 1
	}, 2*time.Second, 5*time.Millisecond, "connection failure must still finalize")

	_, stops := player.snapshot()
	assert.Equal(t, 1, stops)

	calls, recorded := exporter.snapshot()
	assert.Equal(t, 1, calls)
	assert.Equal(t, [][]byte{{9, 9}}, recorded,
		"a drop mid-stream still yields the partial recording")
}

func TestSendAfterClose(t *testing.T) {
	srv := newSynthServer(t)
	c, _, _ := dialTest(t, srv)

	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Speak("too late"), ErrClosed)
	assert.ErrorIs(t, c.Flush(), ErrClosed)
}

func TestCloseBoundedWithSilentServer(t *testing.T) {
	// The server accepts the socket but never responds to anything.
	srv := newSynthServer(t)
	c, _, _ := dialTest(t, srv)

	require.NoError(t, c.Speak("Hello"))
	require.NoError(t, c.Flush())

	done := make(chan error, 1)
	go func() { done <- c.Close() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Close did not return against an unresponsive service")
	}
}
