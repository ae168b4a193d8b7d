package main

import (
	"os"

	"postcraft.app/postcraft/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
