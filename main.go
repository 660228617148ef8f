package main

import "github.com/pinpt/ripblame/cmd"

func main() {
	cmd.Execute()
}
