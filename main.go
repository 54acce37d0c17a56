package main

import "dropbox-comments/cmd"

func main() {
	cmd.Execute()
}
