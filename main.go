package main

import (
	"log"

	"github.com/graphwatch/graphwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
