package main

import "github.com/frahmantamala/campus-ops/cmd"

func main() {
	cmd.Execute()
}
