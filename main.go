package main

import "github.com/globaltfn/remindme-server/cmd"

func main() {
	cmd.Execute()
}
