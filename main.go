package main

import "github.com/depaudit/depaudit/cmd"

func main() {
	cmd.Execute()
}
