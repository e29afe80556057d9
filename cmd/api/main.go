package main

import (
	"log"
	"os"

	"github.com/blogmaster/core/cmd/api/commands"
)

// @title BlogMaster API
// @version 1.0
// @description Blog post store API

// @host localhost:5001
// @BasePath /api/v1

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
