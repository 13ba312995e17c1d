package ioutilx

import (
	"os"
)

// OpenLogFile opens filePath for appending, creating it owner-only if needed.
func OpenLogFile(filePath string) (*os.File, error) {
	return os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}
