package main

import "github.com/easonai/armorytune/cmd"

func main() {
	cmd.Execute()
}
