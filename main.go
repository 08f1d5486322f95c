package main

import (
	"github.com/mj1618/desktop-throw/cmd"

	// Registers the X11 backend on Linux.
	_ "github.com/mj1618/desktop-throw/internal/platform/x11"
)

func main() {
	cmd.Execute()
}
