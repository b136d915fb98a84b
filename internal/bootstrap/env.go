package bootstrap

import (
	"log"

	"github.com/joho/godotenv"
)

// Loadenv reads .env from the working directory if present. Values already set
// in the process environment win.
func Loadenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}
