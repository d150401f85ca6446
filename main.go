package main

import "voxtext/cmd"

func main() {
	cmd.Execute()
}
