package flags

import "fmt"

type ErrMissingParameter string

func (e ErrMissingParameter) Error() string {
	return fmt.Sprintf("the required %s parameter was not specified; see --help", string(e))
}
