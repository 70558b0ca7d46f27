// Package main provides the convbench CLI, which times the convolution
// strategies and runs the built-in self-check.
package main

import (
	"context"

	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(NewCLI().ExecuteContext(context.Background()))
}
