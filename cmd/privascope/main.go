package main

import "github.com/akorchak/privascope/internal/cli"

func main() {
	cli.Execute()
}
