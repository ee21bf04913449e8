// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Command gpbinfo inspects bundles and composes scenes.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
