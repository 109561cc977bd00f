package main

import "github.com/planfacthq/planfact/cmd"

func main() {
	cmd.Execute()
}
