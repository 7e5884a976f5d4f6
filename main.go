package main

import (
	"echobot/cmd/echobot"
	"fmt"
	"os"
)

func main() {
	if err := echobot.Command.Get().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
