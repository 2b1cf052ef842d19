package main

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/postboard/internal/commands"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found")
	}

	if err := commands.RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
