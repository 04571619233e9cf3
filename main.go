package main

import "github.com/clumpsim/clumpsim/cmd"

func main() {
	cmd.Execute()
}
