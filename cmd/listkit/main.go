package main

import (
	"log"

	"github.com/go-drift/listkit/cmd/listkit/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
