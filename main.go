package main

import "github.com/olyannaa/workstream/cmd"

func main() {
	cmd.Execute()
}
