package main

import (
	"fmt"
	"os"

	"github.com/rvgl-uber/textools/internal/cli"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	fmt.Fprintf(os.Stderr, "%s v%s\n", cli.AppName, version)
	cli.Execute(version)
}
