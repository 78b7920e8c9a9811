// Package main provides the storefront CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/storefront/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
