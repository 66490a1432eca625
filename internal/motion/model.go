package motion

import (
	"gonum.org/v1/gonum/num/quat"
)

// TimeColumn is the name of the timestamp column every source declares first.
const TimeColumn = "Time"

// QuaternionSample is a single orientation reading. The quaternion is assumed
// to be of unit length; nothing in this module validates that.
type QuaternionSample struct {
	T float64 `json:"t"` // Seconds
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion returns the sample as a gonum quaternion (W is the real part).
func (s QuaternionSample) Quaternion() quat.Number {
	return quat.Number{Real: s.W, Imag: s.X, Jmag: s.Y, Kmag: s.Z}
}

// EulerAngles is the aerospace (ZYX) roll, pitch, yaw decomposition of a rotation.
// Phi and Psi lie in (-180°, 180°], Theta in [-90°, 90°] (or the radian equivalents).
type EulerAngles struct {
	Phi   float64 `json:"phi"`   // Roll
	Theta float64 `json:"theta"` // Pitch
	Psi   float64 `json:"psi"`   // Yaw
}

// PolarOrientation recasts pitch and yaw as directional-survey angles, in degrees.
type PolarOrientation struct {
	Inc float64 `json:"inc"` // Inclination, 90 + theta
	Azi float64 `json:"azi"` // Azimuth, psi wrapped into (0°, 360°]
}

// TimeWindow is the closed interval [Initial, Final].
type TimeWindow struct {
	Initial float64 `json:"initial"`
	Final   float64 `json:"final"`
}

// Contains reports whether t lies inside the window, both endpoints included.
func (w TimeWindow) Contains(t float64) bool {
	return t >= w.Initial && t <= w.Final
}

// Valid reports whether Initial <= Final.
func (w TimeWindow) Valid() bool {
	return w.Initial <= w.Final
}

// Series is a pair of equal-length sequences of timestamps and channel values,
// in source (chronological) order.
type Series struct {
	Channel string    `json:"channel"`
	Time    []float64 `json:"time"`
	Values  []float64 `json:"values"`
}

// Len returns the number of samples in the series.
func (s Series) Len() int {
	return len(s.Time)
}
