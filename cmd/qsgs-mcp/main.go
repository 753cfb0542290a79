package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/takashiro/qsgs/internal/game"
	qsgsmcp "github.com/takashiro/qsgs/internal/mcp"
)

func main() {
	deck := flag.String("deck", "", "path to a yaml deck list replacing the default copies")
	flag.Parse()

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
	qsgsmcp.SetCatalog(catalog)

	s := server.NewMCPServer("qsgs", "1.0.0")
	qsgsmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
