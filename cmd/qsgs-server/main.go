package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/takashiro/qsgs/internal/game"
	qsgsnet "github.com/takashiro/qsgs/internal/net"
)

func main() {
	addr := flag.String("addr", ":9513", "address to listen on")
	deck := flag.String("deck", "", "path to a yaml deck list replacing the default copies")
	timeout := flag.Duration("timeout", 15*time.Second, "decision clock per prompt (0 disables it)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	catalog := game.NewStandardCatalog()
	if *deck != "" {
		data, err := os.ReadFile(*deck)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := game.LoadDeck(data, catalog); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	settings := game.DefaultRoomSettings()
	settings.Timeout = *timeout

	server := qsgsnet.NewServer(catalog, settings, logger)
	logger.WithField("addr", *addr).Info("qsgs server listening")
	if err := http.ListenAndServe(*addr, server.Handler()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
