package main

import (
	"fieldsync/cmd/server/cmd"
)

func main() {
	cmd.Execute()
}
