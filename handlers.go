package main

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	roomLenMin = 1
	roomLenMax = 64

	// roomPrefix keys the registry; distinct room names map to distinct
	// room ids.
	roomPrefix = "chat_"
)

var errNoUserContext = errors.New("no user context")

func roomID(name string) string {
	return roomPrefix + name
}

// admitter runs the admission steps shared by the websocket and POST
// endpoints: a presented token resolves permissively (a bad token still
// admits, as anonymous), an absent token falls back to the proxy-supplied
// principal, and a request with neither is refused.
type admitter struct {
	rv              *resolver
	principalHeader string
}

func (a admitter) admit(r *http.Request) (identity, error) {
	if token := r.URL.Query().Get("token"); token != "" {
		return a.rv.resolve(token), nil
	}
	if principal := r.Header.Get(a.principalHeader); principal != "" {
		return identity{name: principal, authenticated: true}, nil
	}
	return identity{}, errNoUserContext
}

func newHandler(h *hub, a admitter, ping *mTicker, origin string) http.Handler {
	router := mux.NewRouter()

	// Route websocket requests
	router.Headers(
		"Connection", "Upgrade",
		"Upgrade", "websocket",
	).Path("/{room}").Handler(newWsHandler(h, a, ping, origin))

	// Route other GET and POST requests
	router.Methods("GET").Path("/{room}").Handler(getHandler{})
	router.Methods("POST").Path("/{room}").Handler(postHandler{h: h, a: a})

	return router
}

type wsHandler struct {
	h        *hub
	a        admitter
	ping     *mTicker
	upgrader *websocket.Upgrader
}

func newWsHandler(h *hub, a admitter, ping *mTicker, origin string) wsHandler {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if origin == "" {
				return true
			}
			return r.Header.Get("Origin") == origin
		},
	}
	return wsHandler{h: h, a: a, ping: ping, upgrader: upgrader}
}

func (wsh wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	room, ok := validateRoom(w, r)
	if !ok {
		return
	}
	ident, err := wsh.a.admit(r)
	if err != nil {
		incr("admission.refused", 1)
		http.Error(w, "Error: authentication required.", http.StatusUnauthorized)
		return
	}
	ws, err := wsh.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newConnection(websocketInteractor{ws}, wsh.h, roomID(room), ident)
	c.run(wsh.ping)
}

type postHandler struct {
	h *hub
	a admitter
}

func (ph postHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	room, ok := validateRoom(w, r)
	if !ok {
		return
	}
	ident, err := ph.a.admit(r)
	if err != nil {
		incr("admission.refused", 1)
		http.Error(w, "Error: authentication required.", http.StatusUnauthorized)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendBadRequestError(w, "Unable to read POST body.")
		return
	}
	text, err := marshalOutbound(string(body), ident)
	if err != nil {
		sendBadRequestError(w, "Unable to encode message.")
		return
	}
	ph.h.queue <- command{cmd: PUBLISH, room: roomID(room), text: text}
	w.Write([]byte("OK\n"))
}

type getHandler struct {
}

func (gh getHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	room, ok := validateRoom(w, r)
	if !ok {
		return
	}
	webTemplate.Execute(w, templateArgs{
		Host:  r.Host,
		Room:  room,
		Query: template.URL(r.URL.RawQuery),
	})
}

func validateRoom(w http.ResponseWriter, r *http.Request) (string, bool) {
	room := mux.Vars(r)["room"]
	if !utf8.ValidString(room) {
		sendBadRequestError(w, "Room name must be valid Unicode (UTF-8).")
		return "", false
	}
	roomLen := utf8.RuneCountInString(room)
	if !(roomLenMin <= roomLen && roomLen <= roomLenMax) {
		sendBadRequestError(w, fmt.Sprintf(
			"Room name length must be %d-%d Unicode characters (UTF-8).",
			roomLenMin, roomLenMax))
		return "", false
	}
	return room, true
}

func sendBadRequestError(w http.ResponseWriter, str string) {
	http.Error(w,
		fmt.Sprintf("Error: bad request. %s", str),
		http.StatusBadRequest)
}

type templateArgs struct {
	Host  string
	Room  string
	Query template.URL
}

var webTemplate = template.Must(template.New("webTemplate").Parse(`
<html>
<head>
<title>chatfox {{.Room}}</title>
<script type="text/javascript">
    (function() {
    var form = null, input = null, log = null;

    function append(line) {
        var div = document.createElement("div");
        div.textContent = line;
        log.appendChild(div);
        log.scrollTop = log.scrollHeight;
    }

    window.addEventListener("load", function() {
        form = document.getElementById("form");
        input = document.getElementById("msg");
        log = document.getElementById("log");

        if (!window["WebSocket"]) {
            append("Your browser does not support WebSockets.");
            return;
        }

        var conn = new WebSocket("ws://{{.Host}}/{{.Room}}?{{.Query}}");
        conn.onclose = function() { append("Connection closed."); };
        conn.onmessage = function(evt) {
            var data = JSON.parse(evt.data);
            append(data.username + ": " + data.message);
        };

        form.addEventListener("submit", function(evt) {
            evt.preventDefault();
            if (!input.value) { return; }
            conn.send(JSON.stringify({message: input.value}));
            input.value = "";
        });
        input.focus();
    });
    })();
</script>
</head>
<body>
<h3>Websocket client for {{.Room}}</h3>
<div id="log" style="height:20em;overflow:auto;background:#eee"></div>
<form id="form">
    <input type="text" id="msg" size="64"/>
    <input type="submit" value="Send"/>
</form>
</body>
</html>
`))
