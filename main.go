package main

import "decklint/cmd"

func main() {
	cmd.Execute()
}
