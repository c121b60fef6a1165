// Package beat models musical time as exact fractions of a quarter note and
// converts it to seconds and sample counts for a given tempo.
package beat

import (
	"errors"
	"fmt"
)

var (
	ErrZeroDenominator = errors.New("beat denominator must be non-zero")
	ErrNegative        = errors.New("beat must not be negative")
)

// Beat is an exact rational position or duration measured in quarter-note
// beats. Values are kept reduced with a positive denominator, so == compares
// by value. The zero value is beat 0.
type Beat struct {
	num int64
	den int64 // 0 in the zero value, read through d()
}

// Zero is the first beat of a score.
var Zero = Beat{}

// New returns num/den reduced to lowest terms.
func New(num, den int64) (Beat, error) {
	if den == 0 {
		return Beat{}, ErrZeroDenominator
	}
	if (num < 0) != (den < 0) && num != 0 {
		return Beat{}, fmt.Errorf("%w: %d/%d", ErrNegative, num, den)
	}
	return reduce(num, den), nil
}

// MustNew is New for constant arguments; it panics on invalid input.
func MustNew(num, den int64) Beat {
	b, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return b
}

// Whole returns n beats.
func Whole(n int64) Beat {
	return reduce(n, 1)
}

func reduce(num, den int64) Beat {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Beat{}
	}
	g := gcd(abs(num), den)
	return Beat{num: num / g, den: den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (b Beat) d() int64 {
	if b.den == 0 {
		return 1
	}
	return b.den
}

// Num returns the reduced numerator.
func (b Beat) Num() int64 { return b.num }

// Den returns the reduced denominator (always > 0).
func (b Beat) Den() int64 { return b.d() }

func (b Beat) Add(o Beat) Beat {
	return reduce(b.num*o.d()+o.num*b.d(), b.d()*o.d())
}

// Sub may return a negative Beat; it is used for offsets inside a segment.
func (b Beat) Sub(o Beat) Beat {
	return reduce(b.num*o.d()-o.num*b.d(), b.d()*o.d())
}

// Cmp returns -1, 0 or +1.
func (b Beat) Cmp(o Beat) int {
	l := b.num * o.d()
	r := o.num * b.d()
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func (b Beat) Less(o Beat) bool  { return b.Cmp(o) < 0 }
func (b Beat) Equal(o Beat) bool { return b.Cmp(o) == 0 }
func (b Beat) IsZero() bool      { return b.num == 0 }
func (b Beat) Sign() int         { return b.Cmp(Zero) }

// Max returns the later of two beats.
func Max(a, b Beat) Beat {
	if a.Less(b) {
		return b
	}
	return a
}

func (b Beat) Float64() float64 {
	return float64(b.num) / float64(b.d())
}

func (b Beat) String() string {
	if b.d() == 1 {
		return fmt.Sprintf("%d", b.num)
	}
	return fmt.Sprintf("%d/%d", b.num, b.d())
}
