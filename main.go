package main

import "github.com/MaxwellM34/primerPlus/cmd"

func main() {
	cmd.Execute() // initialize cobra commands
}
