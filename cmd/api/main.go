package main

import (
	"os"

	"github.com/erencelik/ticketline/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		os.Exit(1)
	}
}
