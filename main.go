package main

import "github.com/xa0627-sys/momoshop-watch/cmd"

func main() {
	cmd.Execute()
}
