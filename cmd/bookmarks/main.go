package main

import (
	"log"

	"github.com/MrSnakeDoc/bookmarks/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ bookmarks failed to start: %v", err)
	}
}
