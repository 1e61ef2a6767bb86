package main

import "tube-fusion/cmd"

func main() {
	cmd.Execute()
}
