package main

import "github.com/f1insight/frameforge/cmd"

func main() {
	cmd.Execute()
}
