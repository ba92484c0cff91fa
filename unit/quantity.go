package unit

import (
	"fmt"
	"math"
)

// Quantity is a number paired with a unit. The zero value is 0 with an
// invalid unit; construct through NewQuantity or Dimensionless arithmetic.
type Quantity struct {
	Value float64
	Unit  Unit
}

// NewQuantity returns v expressed in u.
func NewQuantity(v float64, u Unit) Quantity {
	return Quantity{Value: v, Unit: u}
}

// Scalar returns a dimensionless quantity.
func Scalar(v float64) Quantity {
	return Quantity{Value: v, Unit: Dimensionless()}
}

// SI returns the value reduced to coherent SI scale.
func (q Quantity) SI() float64 { return q.Value * q.Unit.scale }

// To converts q into the target unit. Fails with ErrMismatch when the
// dimensions disagree.
func (q Quantity) To(u Unit) (Quantity, error) {
	if !q.Unit.Compatible(u) {
		return Quantity{}, fmt.Errorf("%w: cannot convert %s to %s",
			ErrMismatch, describe(q.Unit), describe(u))
	}
	return Quantity{Value: q.Value * q.Unit.scale / u.scale, Unit: u}, nil
}

// Add returns q + o expressed in q's unit. Fails with ErrMismatch when the
// dimensions disagree.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	c, err := o.To(q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: q.Value + c.Value, Unit: q.Unit}, nil
}

// Sub returns q - o expressed in q's unit.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	c, err := o.To(q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: q.Value - c.Value, Unit: q.Unit}, nil
}

// Mul returns the product quantity with composed units.
func (q Quantity) Mul(o Quantity) Quantity {
	return Quantity{Value: q.Value * o.Value, Unit: q.Unit.Mul(o.Unit)}
}

// Div returns the quotient quantity with composed units.
func (q Quantity) Div(o Quantity) Quantity {
	return Quantity{Value: q.Value / o.Value, Unit: q.Unit.Div(o.Unit)}
}

// ScaleBy returns q with its value multiplied by k.
func (q Quantity) ScaleBy(k float64) Quantity {
	return Quantity{Value: q.Value * k, Unit: q.Unit}
}

// Equal reports whether q and o describe the same physical magnitude:
// compatible dimensions and equal SI-reduced values within rounding.
func (q Quantity) Equal(o Quantity) bool {
	if !q.Unit.Compatible(o.Unit) {
		return false
	}
	a, b := q.SI(), o.SI()
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	return diff <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}

// String renders the value followed by its unit symbol, if any.
func (q Quantity) String() string {
	sym := q.Unit.String()
	if sym == "" {
		return fmt.Sprintf("%g", q.Value)
	}
	return fmt.Sprintf("%g %s", q.Value, sym)
}

func describe(u Unit) string {
	if s := u.String(); s != "" {
		return s
	}
	return "dimensionless"
}
