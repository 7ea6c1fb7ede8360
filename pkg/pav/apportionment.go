package pav

import (
	"fmt"
)

// Method is an apportionment method. DV returns the marginal weight of the
// index-th approved candidate a ballot has in a committee. DV(0) is 0 and
// DV must be positive and non-increasing for index >= 1.
type Method interface {
	Name() string
	DV(index int) (float64, error)
}

// V is the satisfaction a ballot gets from sharing index candidates with a
// committee: the prefix sum of DV over 1..index.
func V(method Method, index int) (float64, error) {
	if index < 0 {
		return 0, fmt.Errorf("%w: negative index %d", ErrInvalidArgument, index)
	}

	var sum float64
	for i := 1; i <= index; i++ {
		dv, err := method.DV(i)
		if err != nil {
			return 0, err
		}

		sum += dv
	}

	return sum, nil
}

// MethodResolver maps a method name to an instance.
type MethodResolver func(name string) (Method, error)
