package main

import "github.com/jbmohler/lmsmono/cmd/seed/cmd"

func main() {
	cmd.Execute()
}
