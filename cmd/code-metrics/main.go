package main

import "github.com/mvp-joe/code-metrics/internal/cli"

func main() {
	cli.Execute()
}
