package main

import (
	"VinylX/cmd"
)

func main() {
	cmd.Execute()
}
