package main

import "optibatch/cmd"

func main() {
	cmd.Execute()
}
