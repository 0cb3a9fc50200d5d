package main

import "github.com/dstrother/mediate/cmd"

func main() {
	cmd.Execute()
}
