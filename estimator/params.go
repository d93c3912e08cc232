package estimator

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMismatchedLengths    = errors.New("frequency vectors differ in length or are empty")
)

// Params are shared by every top-K entry point. SampleInc is only read by
// the progressive rules.
type Params struct {
	K         int     `json:"k" yaml:"k"`
	SampleInc int     `json:"sample_inc" yaml:"sample_inc"`
	Epsilon   float64 `json:"epsilon" yaml:"epsilon"`
	Delta     float64 `json:"delta" yaml:"delta"`
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfiguration, format, args...)
}

func (p Params) validateK() error {
	if p.K < 1 {
		return invalid("k must be positive, got %d", p.K)
	}
	return nil
}

// Validate checks the fields every sampling rule reads.
func (p Params) Validate() error {
	if err := p.validateK(); err != nil {
		return err
	}
	if !(p.Epsilon > 0 && p.Epsilon < 1) {
		return invalid("epsilon must be in (0,1), got %v", p.Epsilon)
	}
	if !(p.Delta > 0 && p.Delta < 1) {
		return invalid("delta must be in (0,1), got %v", p.Delta)
	}
	return nil
}

func (p Params) validateProgressive() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.SampleInc < 1 {
		return invalid("sample_inc must be positive, got %d", p.SampleInc)
	}
	return nil
}
