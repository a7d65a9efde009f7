package assess

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDrug matches any UnsupportedDrugError via errors.Is.
var ErrUnsupportedDrug = errors.New("unsupported drug")

// UnsupportedDrugError is returned when a drug has no configured gene.
type UnsupportedDrugError struct {
	Drug string
}

func (e *UnsupportedDrugError) Error() string {
	return fmt.Sprintf("unsupported drug: %q", e.Drug)
}

// Is reports whether target is ErrUnsupportedDrug.
func (e *UnsupportedDrugError) Is(target error) bool {
	return target == ErrUnsupportedDrug
}
