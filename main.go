package main

import "github.com/evcs-platform/evcs-smoke/cmd"

func main() {
	cmd.Execute()
}
