package main

import "github.com/albin6/authdeck/cmd/authdeck/cmd"

func main() {
	cmd.Execute()
}
