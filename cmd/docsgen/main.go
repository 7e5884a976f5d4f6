package main

import (
	"echobot/cmd/docsgen/docsgen"
	"fmt"
	"os"
)

func main() {
	if err := docsgen.Command.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
