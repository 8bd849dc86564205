package main

import "wozamali-core/cmd/woza-cli/cmd"

func main() {
	cmd.Execute()
}
