package main

// room owns one broadcast domain's member set. Only the room goroutine
// touches members, so joins and leaves are never interleaved with a fan-out
// in progress. population belongs to the hub goroutine, not the room.
type room struct {
	id         string
	queue      queue
	members    members
	population int
}

type members map[*connection]struct{}

func newRoom(id string) *room {
	return &room{
		id:      id,
		queue:   make(queue, 64),
		members: make(members),
	}
}

func (r *room) run() {
	incr("rooms", 1)
	defer decr("rooms", 1)
	for cmd := range r.queue {
		switch cmd.cmd {
		case JOIN:
			r.join(cmd.conn)
		case LEAVE:
			r.leave(cmd.conn)
		case PUBLISH:
			r.deliver(cmd.text)
		case STOP:
			return
		}
	}
}

func (r *room) join(conn *connection) {
	r.members[conn] = struct{}{}
}

func (r *room) leave(conn *connection) {
	if _, ok := r.members[conn]; !ok {
		return
	}
	delete(r.members, conn)
	close(conn.send)
}

// deliver fans the payload out to every member, the sender included. A
// member whose outbound queue is full loses this delivery only; the rest of
// the room still receives it.
func (r *room) deliver(text []byte) {
	for conn := range r.members {
		select {
		case conn.send <- text:
		default:
			incr("deliveries.dropped", 1)
		}
	}
}
