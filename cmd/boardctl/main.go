package main

import "github.com/inamate/inamate/board-go/cmd/boardctl/cmd"

func main() {
	cmd.Execute()
}
