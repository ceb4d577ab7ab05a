package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/suPer8Hu/chat-studio/internal/observability"
)

func main() {
	_ = godotenv.Load()
	observability.Setup(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
