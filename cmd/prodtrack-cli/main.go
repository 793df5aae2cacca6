package main

import "prodtrack/cmd/prodtrack-cli/cmd"

func main() {
	cmd.Execute()
}
