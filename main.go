package main

import "modelstash.io/cli/internal/interfaces/cli"

func main() {
	cli.Execute()
}
