package main

import (
	"arlindohall.com/glox/command/root"
)

func main() {
	root.NewRootCommand().Execute()
}
