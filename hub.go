package main

import (
	"fmt"
)

// hub owns the room table. Every command passes through its single
// goroutine, so room creation and removal are serialized and membership
// bookkeeping needs no locks: the joined flag on a connection and the
// per-room population count are touched only here.
type hub struct {
	queue queue
	rooms rooms
}

type rooms map[string]*room

func newHub() *hub {
	return &hub{
		queue: make(queue, 16),
		rooms: make(rooms),
	}
}

func (h *hub) run() {
	for cmd := range h.queue {
		switch cmd.cmd {
		case JOIN:
			h.join(cmd)
		case LEAVE:
			h.leave(cmd)
		case PUBLISH:
			h.publish(cmd)
		default:
			panic(fmt.Sprintf("unexpected hub cmd: %v\n", cmd))
		}
	}
}

func (h *hub) join(cmd command) {
	if cmd.conn == nil || cmd.conn.joined {
		return
	}
	r, ok := h.rooms[cmd.room]
	if !ok {
		r = newRoom(cmd.room)
		h.rooms[cmd.room] = r
		go r.run()
	}
	cmd.conn.joined = true
	r.population++
	r.queue <- cmd
}

// leave forwards the departure to the room and retires the room once its
// last member is gone. STOP is queued after the final LEAVE, so the room
// drains everything routed to it before returning.
func (h *hub) leave(cmd command) {
	r, ok := h.rooms[cmd.room]
	if !ok || cmd.conn == nil || !cmd.conn.joined {
		return
	}
	cmd.conn.joined = false
	r.population--
	r.queue <- cmd
	if r.population == 0 {
		delete(h.rooms, cmd.room)
		r.queue <- command{cmd: STOP}
	}
}

func (h *hub) publish(cmd command) {
	r, ok := h.rooms[cmd.room]
	if !ok {
		incr("publish.drops", 1)
		return
	}
	select {
	case r.queue <- cmd:
	default:
		// Room queue saturated; shed the message rather than stall
		// delivery to other rooms.
		incr("publish.drops", 1)
	}
}
