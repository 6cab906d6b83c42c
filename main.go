package main

import (
	"ipwarden/cmd"

	_ "go.uber.org/automaxprocs"
)

func main() {
	cmd.Execute()
}
