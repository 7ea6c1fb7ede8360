package apportionment

import (
	"fmt"
	"sort"

	"github.com/cafebazaar/pav/pkg/pav"
)

const (
	DHondt        = "d_hondt"
	SainteLague   = "sainte_lague"
	SainteLague12 = "sainte_lague_1_2"
	SainteLague14 = "sainte_lague_1_4"
)

var methods = map[string]pav.Method{
	DHondt:        dHondt{},
	SainteLague:   sainteLague{name: SainteLague, firstDivisor: 1},
	SainteLague12: sainteLague{name: SainteLague12, firstDivisor: 1.2},
	SainteLague14: sainteLague{name: SainteLague14, firstDivisor: 1.4},
}

// FromName resolves one of the built-in methods.
func FromName(name string) (pav.Method, error) {
	method, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown apportionment method %q", pav.ErrInvalidArgument, name)
	}

	return method, nil
}

// Names lists the built-in method names in ascending order.
func Names() []string {
	var result []string
	for name := range methods {
		result = append(result, name)
	}

	sort.Strings(result)
	return result
}

// dHondt weighs the i-th shared candidate by 1/i.
type dHondt struct{}

func (dHondt) Name() string {
	return DHondt
}

func (dHondt) DV(index int) (float64, error) {
	if err := checkIndex(index); err != nil {
		return 0, err
	}

	if index == 0 {
		return 0, nil
	}

	return 1. / float64(index), nil
}

// sainteLague weighs the i-th shared candidate by 1/(2i-1), except the first
// one which gets 1/firstDivisor.
type sainteLague struct {
	name         string
	firstDivisor float64
}

func (s sainteLague) Name() string {
	return s.name
}

func (s sainteLague) DV(index int) (float64, error) {
	if err := checkIndex(index); err != nil {
		return 0, err
	}

	switch index {
	case 0:
		return 0, nil

	case 1:
		return 1. / s.firstDivisor, nil

	default:
		return 1. / float64(2*index-1), nil
	}
}

type custom struct {
	name string
	dv   func(index int) float64
}

// Custom wraps a marginal weight function as a method. dv is only called
// with index >= 1 and must return positive, non-increasing weights.
func Custom(name string, dv func(index int) float64) pav.Method {
	return &custom{name: name, dv: dv}
}

func (c *custom) Name() string {
	return c.name
}

func (c *custom) DV(index int) (float64, error) {
	if err := checkIndex(index); err != nil {
		return 0, err
	}

	if index == 0 {
		return 0, nil
	}

	return c.dv(index), nil
}

func checkIndex(index int) error {
	if index < 0 {
		return fmt.Errorf("%w: negative index %d", pav.ErrInvalidArgument, index)
	}

	return nil
}
