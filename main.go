package main

import "github.com/Tiliavir/memex/cmd"

func main() {
	cmd.Execute()
}
