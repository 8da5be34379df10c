// Command vitalcheck serves and runs wellness assessments.
//
//	vitalcheck serve  -config config.yaml [-ui-dir public]
//	vitalcheck assess --age 40 --weight 80 --height 175 ...
//	vitalcheck assess --file measurements.json
package main

import (
	"context"
	"fmt"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
