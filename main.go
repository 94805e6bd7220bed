package main

import "github.com/appweave/appweave/cmd"

func main() {
	cmd.Execute()
}
