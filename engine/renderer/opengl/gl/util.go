package gl

import (
	"fmt"
	"strings"
)

// CheckError returns the pending driver error, if any, annotated with op.
func CheckError(f Functions, op string) error {
	if e := f.GetError(); e != NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, uint32(e))
	}
	return nil
}

// TrimLog cleans a driver info log for use in an error message.
func TrimLog(log string) string {
	return strings.TrimSpace(strings.TrimRight(log, "\x00"))
}
