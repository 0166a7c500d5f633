package main

import "lumen/cmd/lumen/root"

func main() {
	root.Execute()
}
