package main

import (
	"os"

	"github.com/bobasettings/bobasettings/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
