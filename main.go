package main

import "github.com/brownplt/BlockLang-sub000/cmd"

func main() {
	cmd.Execute()
}
