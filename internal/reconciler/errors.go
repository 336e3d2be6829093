package reconciler

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable marks failures of the upstream tabular data source
var ErrDataUnavailable = errors.New("data unavailable")

// DataUnavailableError reports which table could not be fetched
type DataUnavailableError struct {
	Table string
	Err   error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("table %s unavailable: %v", e.Table, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// Unavailable wraps err as a DataUnavailableError for table. A nil err stays nil.
func Unavailable(table string, err error) error {
	if err == nil {
		return nil
	}
	return &DataUnavailableError{Table: table, Err: err}
}
