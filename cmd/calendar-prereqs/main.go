package main

import "github.com/pfrederiksen/calendar-prereqs/internal/cli"

func main() {
	cli.Execute()
}
