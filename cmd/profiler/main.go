package main

import "github.com/JonMunkholm/profiler/internal/cli"

func main() {
	cli.Execute()
}
