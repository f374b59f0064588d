// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// isCleanShutdown reports whether err represents an orderly stop. A
// user-requested interrupt surfaces as context.Canceled and must not turn
// into a failing exit code.
func isCleanShutdown(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

func main() {
	if err := newRootCommand().Execute(); !isCleanShutdown(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
