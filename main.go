package main

import "github.com/pobstone/racesim/cmd"

func main() {
	cmd.Execute()
}
