package factstore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDataIntegrity is matched by every dataset load failure
var ErrDataIntegrity = errors.New("data integrity")

// DataIntegrityError reports why a dataset was rejected. A store is never
// built from a dataset that produced one.
type DataIntegrityError struct {
	Path     string   // Dataset path, empty for in-memory datasets
	Problems []string // Every violation found, in dataset order
	Err      error    // Underlying read/decode error, if any
}

func (e *DataIntegrityError) Error() string {
	var b strings.Builder
	b.WriteString("data integrity")
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	switch len(e.Problems) {
	case 0:
	case 1:
		fmt.Fprintf(&b, ": %s", e.Problems[0])
	default:
		fmt.Fprintf(&b, ": %d problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
	}
	return b.String()
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}
