package main

// Commands flow from connections and HTTP handlers to the hub, and from the
// hub to room goroutines. The hub is the only writer to a room's queue, so a
// room sees its joins, leaves and publishes in the order the hub routed them.
const (
	JOIN = iota
	LEAVE
	PUBLISH
	STOP
)

type command struct {
	cmd  int
	room string
	conn *connection
	text []byte
}

type queue chan command
