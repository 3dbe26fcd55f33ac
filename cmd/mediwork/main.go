package main

import (
	"fmt"
	"os"

	"github.com/sqli/medwork-client/internal/client/app"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mediwork: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "mediwork: %v\n", err)
		os.Exit(1)
	}
}
