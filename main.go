package main

import "github.com/KaramelBytes/citybike-cli/cmd"

func main() {
	cmd.Execute()
}
