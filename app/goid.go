package app

import (
	"bytes"
	"runtime"
	"strconv"
)

// goid returns the current goroutine's ID, parsed from the
// runtime.Stack header line ("goroutine 123 [running]:"). The runtime
// deliberately hides goroutine identity, so this is used for
// diagnostics only (naming the two loops in log output), never for
// control flow.
func goid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
