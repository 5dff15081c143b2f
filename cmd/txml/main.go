package main

import "github.com/scraptools/txml/cmd/txml/cmd"

func main() {
	cmd.Execute()
}
