package main

import (
	"log"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// connection is one live session, bound to a single room for its lifetime.
// Its identity is fixed at admission. The send queue is closed exactly once,
// by the room, when the connection leaves.
type connection struct {
	id       string
	room     string
	identity identity
	send     chan []byte
	w        websocketManager
	h        *hub

	// joined is owned by the hub goroutine.
	joined bool
}

func newConnection(w websocketManager, h *hub, room string, ident identity) *connection {
	return &connection{
		id:       uuid.NewString(),
		room:     room,
		identity: ident,
		send:     make(chan []byte, 256),
		w:        w,
		h:        h,
	}
}

// run joins the room, pumps frames until the peer disconnects, then leaves.
// The deferred leave runs once no matter how the reader exits; the room
// treats a leave for a non-member as a no-op.
func (c *connection) run(ping *mTicker) {
	c.h.queue <- command{cmd: JOIN, room: c.room, conn: c}
	incr("websockets", 1)
	sub := ping.subscribe()
	defer func() {
		decr("websockets", 1)
		ping.unsubscribe(sub)
		c.h.queue <- command{cmd: LEAVE, room: c.room, conn: c}
	}()
	go c.writer(sub)
	c.reader()
}

func (c *connection) reader() {
	c.w.wsSetReadLimit()
	c.w.wsSetReadDeadline()
	c.w.wsSetPongHandler()
	for {
		if err := c.readMessage(); err != nil {
			break
		}
	}
	c.w.wsClose()
}

// readMessage pumps one inbound frame. A frame that fails to decode is
// dropped and reported; only a transport error ends the session.
func (c *connection) readMessage() error {
	_, frame, err := c.w.wsReadMessage()
	if err != nil {
		return err
	}
	incr("conn.recv", 1)
	text, err := encodeEnvelope(frame, c.identity)
	if err != nil {
		incr("frames.invalid", 1)
		log.Printf("conn %s: dropping undecodable frame: %v", c.id, err)
		return nil
	}
	c.h.queue <- command{cmd: PUBLISH, room: c.room, text: text}
	return nil
}

func (c *connection) writer(sub *subscriber) {
	defer c.w.wsClose()
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			c.w.wsSetWriteDeadline()
			if err := c.w.wsWriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
			incr("conn.send", 1)
		case _, ok := <-sub.tick:
			if !ok {
				return
			}
			c.w.wsSetWriteDeadline()
			if err := c.w.wsWriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
