package main

import (
	"mtleg-backend/cmd/mtleg/commands"
	"mtleg-backend/lib/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	commands.Execute(ctx)
}
