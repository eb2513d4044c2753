package main

import "github.com/mvp-joe/gqlextract/internal/cli"

func main() {
	cli.Execute()
}
