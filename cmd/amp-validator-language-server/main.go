package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/internal/version"
	"github.com/ampproject/amphtml-sub099/lsp"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		return
	}

	server, err := lsp.NewServer()
	if err != nil {
		log.Error("Failed to create LSP server: %v", err)
		os.Exit(1)
	}
	defer func() { _ = server.Close() }()

	log.Info("Starting amp-validator-language-server %s", version.Get())

	// Run with stdio transport (for VSCode and other editors)
	if err := server.RunStdio(); err != nil {
		log.Error("Server error: %v", err)
		os.Exit(1)
	}
}
