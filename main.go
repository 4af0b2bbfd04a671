package main

import "github.com/go-ark/arkengine/cmd"

func main() {
	cmd.Execute()
}
