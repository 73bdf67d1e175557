package main

import (
	"log"
	"os"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/cmd"
)

func main() {
	if err := cmd.RunCli(os.Args); err != nil {
		log.Fatal(err)
	}
}
