// Command chatfox is a room-scoped realtime chat relay over websockets.
//
//	chatfox -addr=:8081
//
// Everything is as ephemeral as can be. A message is fanned out to the
// members of its room (the sender included) and then forgotten. A room is
// forgotten when its last member disconnects.
//
// Join a room by opening a websocket to its path, presenting a bearer token
// as a query parameter.
//	ws://localhost:8081/lobby?token=<JWT>
//
// A token that fails verification still admits the connection, as anonymous.
// A request with no token at all is admitted only when a fronting proxy
// supplies a pre-authenticated principal header; otherwise it is refused.
//
// Send a message as a JSON object. Only the "message" field is read.
//	{"message": "hi"}
//
// Every member of the room receives the message stamped with the sender's
// display name, or "anônimo" for anonymous senders.
//	{"message": "hi", "username": "alice"}
//
// Publish from outside a websocket by POSTing a plain text body to the room
// path, under the same admission rule.
//	curl localhost:8081/lobby?token=<JWT> -d "Hello"
//
// Non-websocket GET requests are served HTML with a websocket client for
// the requested room.
package main
