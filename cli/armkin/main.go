// Package main is the CLI command itself.
package main

import (
	"log"
	"os"

	armkincli "go.viam.com/armkin/cli"
)

func main() {
	app := armkincli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
