package main

import "github.com/Tiliavir/headache-tracker/cmd"

func main() {
	cmd.Execute()
}
