package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/facebookgo/httpdown"
)

func main() {
	// Prepare the stoppable HTTP server
	server := &http.Server{
		Addr: "127.0.0.1:8081",
	}
	hd := &httpdown.HTTP{
		StopTimeout: 10 * time.Second,
		KillTimeout: 1 * time.Second,
	}

	flag.StringVar(&server.Addr, "addr", server.Addr, "http service address")
	flag.DurationVar(&hd.StopTimeout, "stop-timeout", hd.StopTimeout, "stop timeout")
	flag.DurationVar(&hd.KillTimeout, "kill-timeout", hd.KillTimeout, "kill timeout")
	origin := flag.String("origin", "", "websocket server checks Origin headers against this scheme://host[:port]")
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.TokenKey == "" {
		log.Print("CHATFOX_TOKEN_KEY unset: every token will resolve to anonymous")
	}

	hub := newHub()
	go hub.run()

	rv := newResolver([]byte(cfg.TokenKey), staticDirectory(cfg.Subjects))
	a := admitter{rv: rv, principalHeader: cfg.PrincipalHeader}

	ping := newMTicker(pingPeriod)
	defer ping.stop()

	startMetrics()
	defer finalMetrics()

	// Start the server
	server.Handler = newHandler(hub, a, ping, *origin)
	if err := httpdown.ListenAndServe(server, hd); err != nil {
		log.Fatal(err)
	}
}
