package main

import (
	"errors"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestConnReadMessage(t *testing.T) {
	conn := newTestConnection()

	// On error, nothing is published
	conn.w = mockWsInteractor{err: errors.New("Message Read Error")}
	err := conn.readMessage()

	if err == nil {
		t.Fatal("No Error Returned")
	}
	if len(conn.h.queue) != 0 {
		t.Fatal("Expectation: hub queue length should be 0, Received:", len(conn.h.queue))
	}

	// A frame is decoded, stamped with the sender, and published
	conn.w = mockWsInteractor{msg: []byte(`{"message":"banana"}`)}
	if err := conn.readMessage(); err != nil {
		t.Fatal("Expectation: Error should be nil, Received:", err)
	}

	cmd := <-conn.h.queue
	if cmd.cmd != PUBLISH {
		t.Fatal("Expectation: PUBLISH, Received:", cmd.cmd)
	}
	if cmd.room != "chat_monkey" {
		t.Fatal("Expectation: chat_monkey, Received:", cmd.room)
	}
	if string(cmd.text) != `{"message":"banana","username":"anônimo"}` {
		t.Fatal("Unexpected payload:", string(cmd.text))
	}
}

func TestConnReadMessageAuthenticated(t *testing.T) {
	conn := newTestConnection()
	conn.identity = identity{name: "alice", authenticated: true}
	conn.w = mockWsInteractor{msg: []byte(`{"message":"hi"}`)}

	if err := conn.readMessage(); err != nil {
		t.Fatal("Expectation: Error should be nil, Received:", err)
	}

	cmd := <-conn.h.queue
	if string(cmd.text) != `{"message":"hi","username":"alice"}` {
		t.Fatal("Unexpected payload:", string(cmd.text))
	}
}

func TestConnReadMessageMissingField(t *testing.T) {
	conn := newTestConnection()
	conn.w = mockWsInteractor{msg: []byte(`{"other":"field"}`)}

	if err := conn.readMessage(); err != nil {
		t.Fatal("Expectation: Error should be nil, Received:", err)
	}

	cmd := <-conn.h.queue
	if string(cmd.text) != `{"message":"","username":"anônimo"}` {
		t.Fatal("Unexpected payload:", string(cmd.text))
	}
}

func TestConnReadMessageUndecodable(t *testing.T) {
	conn := newTestConnection()
	conn.w = mockWsInteractor{msg: []byte("not json")}

	// The frame is dropped; the connection stays up
	if err := conn.readMessage(); err != nil {
		t.Fatal("Expectation: Error should be nil, Received:", err)
	}
	if len(conn.h.queue) != 0 {
		t.Fatal("Expectation: hub queue length should be 0, Received:", len(conn.h.queue))
	}
}

func TestConnWriter(t *testing.T) {
	conn := newTestConnection()
	writes := make(chan wsWrite, 8)
	conn.w = mockWsInteractor{writes: writes}
	sub := newSubscriber()

	go conn.writer(sub)

	// A queued message is written as a text frame
	conn.send <- []byte("bananas")
	w := <-writes
	if w.messageType != websocket.TextMessage || string(w.payload) != "bananas" {
		t.Fatal("Expectation: text frame 'bananas', Received:", w.messageType, string(w.payload))
	}

	// A tick produces a ping frame with no payload
	sub.tick <- time.Now()
	w = <-writes
	if w.messageType != websocket.PingMessage || len(w.payload) != 0 {
		t.Fatal("Expectation: empty ping frame, Received:", w.messageType, string(w.payload))
	}

	close(conn.send)
}

func newTestConnection() *connection {
	return &connection{
		room: "chat_monkey",
		send: make(chan []byte, 256),
		h:    newHub(),
	}
}

type wsWrite struct {
	messageType int
	payload     []byte
}

type mockWsInteractor struct {
	msg    []byte
	err    error
	writes chan wsWrite
}

func (mq mockWsInteractor) wsSetReadLimit() {}

func (mq mockWsInteractor) wsSetReadDeadline() {}

func (mq mockWsInteractor) wsSetPongHandler() {}

func (mq mockWsInteractor) wsClose() {}

func (mq mockWsInteractor) wsSetWriteDeadline() {}

func (mq mockWsInteractor) wsReadMessage() (messageType int, p []byte, err error) {
	return messageType, mq.msg, mq.err
}

func (mq mockWsInteractor) wsWriteMessage(messageType int, payload []byte) error {
	if mq.writes != nil {
		mq.writes <- wsWrite{messageType, payload}
	}
	return mq.err
}
