// main.go
// Wiring: load config, set up logging, start the failure drain and the
// optional websocket endpoint, then hand the TCP listener to the accept
// loop. A listener that cannot bind is the only process-fatal error;
// everything after startup is connection-local.

package main

import (
	"flag"
	"net"
	"net/http"

	log "github.com/sirupsen/logrus"
)

func main() {
	configFile := flag.String("config", "", "path to JSON config file")
	listenAddr := flag.String("listen", "", "TCP listen address (overrides config)")
	wsAddr := flag.String("ws", "", "websocket listen address (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.WithError(err).Fatal("config")
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *wsAddr != "" {
		cfg.WSAddr = *wsAddr
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("config: bad log level")
	}
	log.SetLevel(level)

	reg := NewRegistry()
	go logWriteFailures(reg.Failures())

	if cfg.WSAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", wsHandler(reg))
		go func() {
			log.WithField("addr", cfg.WSAddr).Info("websocket transport listening")
			if err := http.ListenAndServe(cfg.WSAddr, mux); err != nil {
				log.WithError(err).Fatal("websocket listener")
			}
		}()
	}

	l, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.WithError(err).Fatal("tcp listener")
	}
	log.WithField("addr", cfg.ListenAddr).Info("listening")

	if err := serveTCP(l, reg); err != nil {
		log.WithError(err).Fatal("accept loop")
	}
}

// logWriteFailures is the relay's error sink. A failed write never
// deregisters the client or touches anyone else's delivery; it is only
// reported here.
func logWriteFailures(failures <-chan WriteFailure) {
	for f := range failures {
		log.WithField("client", f.ClientID).WithError(f.Err).Warn("write failed")
	}
}
