package main

import "github.com/gbujak/flog/cmd"

func main() {
	cmd.Execute()
}
