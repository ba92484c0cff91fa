package series

import (
	"fmt"
	"math"
	"math/cmplx"
)

// FilterBA scales every sample by the magnitude response of the analog
// rational transfer function b(s)/a(s), evaluated at s = i*x for the
// sample's axis position x. Coefficients run from the highest power down.
// With inPlace the receiver's samples are rewritten and the receiver
// returned, otherwise a copy is filtered and s stays untouched. The data
// unit is unchanged; the response is a bare ratio.
func (s *Series) FilterBA(b, a []float64, inPlace bool) (*Series, error) {
	if len(b) == 0 || len(a) == 0 {
		return nil, fmt.Errorf("%w: filter needs numerator and denominator coefficients", ErrValue)
	}
	return s.applyResponse(inPlace, func(si complex128) float64 {
		den := polyval(a, si)
		if den == 0 {
			// exact pole on the axis
			return math.Inf(1)
		}
		return cmplx.Abs(polyval(b, si) / den)
	})
}

// FilterZPK scales every sample by the magnitude response of the analog
// transfer function gain * prod(s-z) / prod(s-p), evaluated at s = i*x.
// Empty zero and pole sets apply the plain gain. The inPlace contract
// matches FilterBA.
func (s *Series) FilterZPK(zeros, poles []complex128, gain float64, inPlace bool) (*Series, error) {
	return s.applyResponse(inPlace, func(si complex128) float64 {
		num := complex(gain, 0)
		for _, z := range zeros {
			num *= si - z
		}
		den := complex(1, 0)
		for _, p := range poles {
			den *= si - p
		}
		if den == 0 {
			return math.Inf(1)
		}
		return cmplx.Abs(num / den)
	})
}

func (s *Series) applyResponse(inPlace bool, mag func(complex128) float64) (*Series, error) {
	idx, err := s.XIndex()
	if err != nil {
		return nil, err
	}
	pos := idx.Data()
	out := s
	if !inPlace {
		out = s.Copy()
	}
	for i := range out.data {
		out.data[i] *= mag(complex(0, pos[i]))
	}
	return out, nil
}

// polyval evaluates a real-coefficient polynomial at s, coefficients from
// the highest power down.
func polyval(coeffs []float64, s complex128) complex128 {
	var acc complex128
	for _, c := range coeffs {
		acc = acc*s + complex(c, 0)
	}
	return acc
}
