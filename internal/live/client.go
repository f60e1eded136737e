// Package live connects to the server's per-channel websocket: it decodes
// inbound pushes into typed events and carries outbound sends and typing
// signals.
package live

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/huddlechat/huddle/internal/types"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Maximum frame size accepted from the server.
	maxMessageSize = 64 * 1024
)

// Client is one live-channel connection, bound to a single conversation.
// Inbound frames are decoded and delivered on Events; the channel is closed
// when the connection dies.
type Client struct {
	channelID int64
	conn      *websocket.Conn
	events    chan types.Event

	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}

	errMu   sync.Mutex
	lastErr error
}

// outboundMessage is the wire form of a message send.
type outboundMessage struct {
	Content    string `json:"content"`
	ParentID   *int64 `json:"parent_id,omitempty"`
	DocumentID *int64 `json:"document_id,omitempty"`
}

// outboundTyping is the wire form of a typing signal.
type outboundTyping struct {
	Type     string `json:"type"`
	IsTyping bool   `json:"is_typing"`
}

// Dial opens the websocket for a channel. serverURL is the http(s) base
// address; the scheme is rewritten to ws(s).
func Dial(serverURL string, channelID int64, token string) (*Client, error) {
	wsURL, err := endpointURL(serverURL, channelID, token)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial live channel: %w", err)
	}

	c := &Client{
		channelID: channelID,
		conn:      conn,
		events:    make(chan types.Event, 32),
		done:      make(chan struct{}),
	}
	go c.readLoop()
	go c.pingLoop()
	return c, nil
}

func endpointURL(serverURL string, channelID int64, token string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + fmt.Sprintf("/chat/ws/%d", channelID)
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ChannelID returns the conversation this connection serves.
func (c *Client) ChannelID() int64 {
	return c.channelID
}

// Events is the inbound event stream. Closed when the connection ends;
// check Err afterwards.
func (c *Client) Events() <-chan types.Event {
	return c.events
}

// Err returns the error that terminated the connection, if any.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.lastErr
}

// SendMessage sends a message over the live channel.
func (c *Client) SendMessage(content string, parentID, documentID *int64) error {
	return c.writeJSON(outboundMessage{Content: content, ParentID: parentID, DocumentID: documentID})
}

// SendTyping broadcasts the local typing state.
func (c *Client) SendTyping(isTyping bool) error {
	return c.writeJSON(outboundTyping{Type: "typing", IsTyping: isTyping})
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) writeJSON(v interface{}) error {
	select {
	case <-c.done:
		return fmt.Errorf("live channel closed")
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("live channel write: %w", err)
	}
	return nil
}

// readLoop pumps frames off the socket, decodes them and delivers typed
// events. Undecodable frames are skipped rather than killing the stream.
func (c *Client) readLoop() {
	defer close(c.events)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					c.setErr(err)
				}
			}
			return
		}

		ev, err := types.DecodeEvent(data)
		if err != nil {
			continue
		}
		if ev.Kind() == types.EventPing {
			// Server keepalive, nothing to deliver.
			c.conn.SetReadDeadline(time.Now().Add(pongWait))
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) setErr(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.lastErr == nil {
		c.lastErr = err
	}
}
