// Copyright © 2026, the viac-pdf-import authors. All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tracer

import (
	"fmt"
	"io"
	"os"
)

var traceMessages []string

// Log just adds a message to the trace log.
func Log(msg string) {
	traceMessages = append(traceMessages, msg)
}

// Flush prints the accumulated trace log to stdout and resets it.
func Flush() {
	FlushTo(os.Stdout)
}

// FlushTo writes the accumulated trace log to w and resets it.
func FlushTo(w io.Writer) {
	for _, msg := range traceMessages {
		fmt.Fprintln(w, msg)
	}
	// reset so the next run starts fresh
	traceMessages = nil
}
