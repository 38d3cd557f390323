package main

import "github.com/gaurav-prasanna/threadpipe/cmd"

func main() {
	cmd.Execute()
}
