package main

import "github.com/rook-computer/titlecard/cmd"

func main() {
	cmd.Execute()
}
