package main

import "github.com/stewardhq/steward/cmd"

func main() {
	cmd.Execute()
}
