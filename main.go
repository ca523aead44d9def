package main

import "github.com/mj1618/element-inspector/cmd"

func main() {
	cmd.Execute()
}
