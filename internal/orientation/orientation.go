package orientation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/roman-kulish/attitude-survey/internal/kinematics"
	"github.com/roman-kulish/attitude-survey/internal/motion"
)

// LengthMismatchError is returned when the quaternion component sequences
// passed to a series operation are not all the same length.
type LengthMismatchError struct {
	W, X, Y, Z int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("quaternion component lengths differ: w=%d x=%d y=%d z=%d", e.W, e.X, e.Y, e.Z)
}

// SampleError attaches the index of the failing sample to a conversion error.
type SampleError struct {
	Index int
	Err   error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %d: %s", e.Index, e.Err)
}

func (e *SampleError) Unwrap() error {
	return e.Err
}

// EulerSeries holds per-sample Euler angles.
type EulerSeries struct {
	Phi   []float64
	Theta []float64
	Psi   []float64
}

// PolarSeries holds per-sample inclination and azimuth, in degrees.
type PolarSeries struct {
	Inc []float64
	Azi []float64
}

// WithLogger sets the logger for the series driver
func WithLogger(logger *slog.Logger) func(*Series) {
	return func(s *Series) {
		s.logger = logger
	}
}

// WithSkipInvalid makes the series driver store NaN for samples whose
// quaternion is outside the asin domain, instead of failing the whole call.
func WithSkipInvalid() func(*Series) {
	return func(s *Series) {
		s.skipInvalid = true
	}
}

// Series applies quaternion kinematics element-wise over full time series.
type Series struct {
	kin         *kinematics.Kinematics
	skipInvalid bool
	logger      *slog.Logger
}

// NewSeries creates a series driver around k with a discard logger.
func NewSeries(k *kinematics.Kinematics, options ...func(*Series)) *Series {
	s := Series{
		kin:    k,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(&s)
	}
	return &s
}

// Euler converts the quaternion components to roll, pitch and yaw, in degrees,
// or radians when radians is true.
func (s *Series) Euler(w, x, y, z []float64, radians bool) (*EulerSeries, error) {
	n, err := commonLength(w, x, y, z)
	if err != nil {
		return nil, err
	}

	out := EulerSeries{
		Phi:   make([]float64, n),
		Theta: make([]float64, n),
		Psi:   make([]float64, n),
	}
	err = s.each(w, x, y, z, radians, func(i int, e motion.EulerAngles) {
		out.Phi[i], out.Theta[i], out.Psi[i] = e.Phi, e.Theta, e.Psi
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Polar converts the quaternion components to inclination and azimuth. The
// polar form is always computed from Euler angles in degrees.
func (s *Series) Polar(w, x, y, z []float64) (*PolarSeries, error) {
	n, err := commonLength(w, x, y, z)
	if err != nil {
		return nil, err
	}

	out := PolarSeries{
		Inc: make([]float64, n),
		Azi: make([]float64, n),
	}
	err = s.each(w, x, y, z, false, func(i int, e motion.EulerAngles) {
		p := PolarFromEuler(e)
		out.Inc[i], out.Azi[i] = p.Inc, p.Azi
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Series) each(w, x, y, z []float64, radians bool, fn func(int, motion.EulerAngles)) error {
	var skipped int
	nan := math.NaN()

	for i := range w {
		e, err := s.kin.ToEuler(quat.Number{Real: w[i], Imag: x[i], Jmag: y[i], Kmag: z[i]}, radians)
		if err != nil {
			var domainErr *kinematics.DomainError
			if !s.skipInvalid || !errors.As(err, &domainErr) {
				return &SampleError{Index: i, Err: err}
			}
			s.logger.Warn("skipping sample outside asin domain",
				slog.Int("index", i),
				slog.Float64("value", domainErr.Value))

			skipped++
			e = motion.EulerAngles{Phi: nan, Theta: nan, Psi: nan}
		}
		fn(i, e)
	}

	if skipped > 0 {
		s.logger.Warn("invalid samples replaced with NaN", slog.Int("skipped", skipped), slog.Int("total", len(w)))
	}
	return nil
}

// PolarFromEuler derives inclination and azimuth from Euler angles given in
// degrees. Azimuth equals psi when psi is strictly positive and 360 + psi
// otherwise, so psi == 0 maps to 360, not 0.
func PolarFromEuler(e motion.EulerAngles) motion.PolarOrientation {
	p := motion.PolarOrientation{Inc: 90 + e.Theta}
	if e.Psi > 0 {
		p.Azi = e.Psi
	} else {
		p.Azi = 360 + e.Psi
	}
	return p
}

func commonLength(w, x, y, z []float64) (int, error) {
	n := len(w)
	if len(x) != n || len(y) != n || len(z) != n {
		return 0, &LengthMismatchError{W: len(w), X: len(x), Y: len(y), Z: len(z)}
	}
	return n, nil
}
