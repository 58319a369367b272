package main

import "medremind/internal/cli"

func main() {
	cli.Execute()
}
