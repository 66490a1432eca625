package kinematics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/roman-kulish/attitude-survey/internal/motion"
	"github.com/roman-kulish/attitude-survey/internal/units"
)

// DomainError is returned when the pitch term 2(wy - xz) falls outside [-1, 1],
// which only happens for non-unit or corrupted quaternions.
type DomainError struct {
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("asin argument %g outside [-1, 1]", e.Value)
}

// WithConverter sets the unit converter used to turn radians into degrees.
func WithConverter(c units.Converter) func(*Kinematics) {
	return func(k *Kinematics) {
		k.converter = c
	}
}

// Kinematics converts orientation quaternions into Euler angles using the
// aerospace roll-pitch-yaw (ZYX) convention.
type Kinematics struct {
	converter units.Converter
}

// New creates a Kinematics that converts to degrees with units.SI.
func New(options ...func(*Kinematics)) *Kinematics {
	k := Kinematics{converter: units.SI}
	for _, option := range options {
		option(&k)
	}
	return &k
}

// ToEuler decomposes q into roll (phi), pitch (theta) and yaw (psi).
//
//	phi   = atan2(2(wx + yz), 1 - 2(x² + y²))
//	theta = asin(2(wy - xz))
//	psi   = atan2(2(wz + xy), 1 - 2(y² + z²))
//
// Angles are returned in degrees unless radians is true. The quaternion is not
// normalised; a non-unit input yields angles without rotation semantics, and
// an asin argument outside [-1, 1] fails with *DomainError.
func (k *Kinematics) ToEuler(q quat.Number, radians bool) (motion.EulerAngles, error) {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	s := 2 * (w*y - x*z)
	if s < -1 || s > 1 {
		return motion.EulerAngles{}, &DomainError{Value: s}
	}

	e := motion.EulerAngles{
		Phi:   math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)),
		Theta: math.Asin(s),
		Psi:   math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)),
	}
	if radians {
		return e, nil
	}

	var err error
	for _, a := range []*float64{&e.Phi, &e.Theta, &e.Psi} {
		if *a, err = k.converter.Convert(*a, units.Radian, units.Degree); err != nil {
			return motion.EulerAngles{}, fmt.Errorf("converting to degrees: %w", err)
		}
	}
	return e, nil
}

// SampleToEuler is ToEuler for a motion.QuaternionSample.
func (k *Kinematics) SampleToEuler(s motion.QuaternionSample, radians bool) (motion.EulerAngles, error) {
	return k.ToEuler(s.Quaternion(), radians)
}
