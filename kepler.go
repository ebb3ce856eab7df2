// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

package gobrdc

import (
	"errors"
	"fmt"
	"math"
)

// Kepler's equation did not settle within the iteration cap. The inputs
// are corrupt or physically nonsensical; any position computed from them
// must not be used.
var ErrKeplerNoConvergence = errors.New("kepler iteration did not converge")

// Iteration settings for solving Kepler's equation
type KeplerOpt struct {
	Tol     float64 // Convergence limit on successive iterates
	MaxIter int     // Iteration cap
}

func NewKeplerOpt() *KeplerOpt {
	return &KeplerOpt{
		Tol:     1e-14,
		MaxIter: 1000,
	}
}

// Solve E = M + e*sin(E) by fixed-point iteration seeded at M
func solveKepler(mk, ecc float64, opt *KeplerOpt) (float64, error) {
	e := mk
	ek := 0.0
	i := 0
	for ; math.Abs(e-ek) > opt.Tol && i <= opt.MaxIter; i++ {
		ek = e
		e = math.Sin(ek)*ecc + mk
	}
	// A NaN difference also ends the loop; treat it as a failed solve
	if i >= opt.MaxIter || math.IsNaN(e) {
		return 0, ErrKeplerNoConvergence
	}
	return e, nil
}

// Clamp a time difference into [-HalfWeek, HalfWeek] to absorb the
// 604800 s wrap of time-of-week values
func wrapWeek(tk float64) float64 {
	if tk > HalfWeek {
		tk -= SecInWeek
	}
	if tk < -HalfWeek {
		tk += SecInWeek
	}
	return tk
}

// Gravitational constant and earth rotation rate for the frame the
// system broadcasts in
func (f *NavDataFrame) muOmge() (float64, float64) {
	switch f.sys {
	case 'E':
		return MuGAL, OmegaEDot
	case 'C':
		return MuBDS, OmegaEBDS
	default:
		return MuGPS, OmegaEDot
	}
}

// Compute the ECEF position of the SV antenna phase center from Keplerian
// broadcast elements with default iteration settings. toeSec and tSec are
// seconds counted from the same reference (seconds of week or seconds of
// day, aligned by the caller) in the record's native time scale. Returns
// the position in meters and the eccentric anomaly of the iterative
// solve, reusable by GpsDtsv.
//
// See IS-GPS-200H, User Algorithm for Ephemeris Determination.
func (f *NavDataFrame) GpsEcef(toeSec, tSec float64) (PosXYZ, float64, error) {
	return f.GpsEcefOpt(toeSec, tSec, NewKeplerOpt())
}

func (f *NavDataFrame) GpsEcefOpt(toeSec, tSec float64, opt *KeplerOpt) (PosXYZ, float64, error) {
	var xyz PosXYZ
	eph := f.Kepler()
	mu, omge := f.muOmge()

	A := eph.SqrtA * eph.SqrtA
	n0 := math.Sqrt(mu / (A * A * A)) // Computed mean motion [rad/s]
	tk := wrapWeek(tSec - toeSec)
	n := n0 + eph.DeltaN // Corrected mean motion
	mk := eph.M0 + n*tk  // Mean anomaly

	ekIter, err := solveKepler(mk, eph.Ecc, opt)
	if err != nil {
		return xyz, 0, fmt.Errorf("gps_ecef %s: %w", f.Sat(), err)
	}

	e := eph.Ecc
	sinE := math.Sin(ekIter)
	cosE := math.Cos(ekIter)
	ecosEm1 := 1 - e*cosE
	vk := math.Atan2(math.Sqrt(1-e*e)*sinE/ecosEm1, (cosE-e)/ecosEm1) // True anomaly
	// Re-derive the eccentric anomaly from the true anomaly. The acos
	// branch drops the sign of the iterative solve; this reproduces the
	// reference formula and is kept as-is.
	cosVk := math.Cos(vk)
	ek := math.Acos((e + cosVk) / (1 + e*cosVk))

	// Second harmonic perturbations
	fk := vk + eph.Omega // Argument of latitude
	sin2F := math.Sin(2 * fk)
	cos2F := math.Cos(2 * fk)
	duk := eph.Cus*sin2F + eph.Cuc*cos2F // Argument of latitude correction
	drk := eph.Crs*sin2F + eph.Crc*cos2F // Radius correction
	dik := eph.Cis*sin2F + eph.Cic*cos2F // Inclination correction

	uk := fk + duk                   // Corrected argument of latitude
	rk := A*(1-e*math.Cos(ek)) + drk // Corrected radius
	ik := eph.I0 + dik + eph.Idot*tk // Corrected inclination

	// Positions in orbital plane
	xk := rk * math.Cos(uk)
	yk := rk * math.Sin(uk)

	// Corrected longitude of ascending node
	omk := eph.Omega0 + (eph.OmegaD-omge)*tk - omge*toeSec

	if f.sys == 'C' && (f.prn <= 5 || f.prn >= 59) {
		// BeiDou GEO: inclined-plane broadcast frame, rotate back
		omk = eph.Omega0 + eph.OmegaD*tk - omge*toeSec
		sinO := math.Sin(omk)
		cosO := math.Cos(omk)
		cosi := math.Cos(ik)
		xg := xk*cosO - yk*sinO*cosi
		yg := xk*sinO + yk*cosO*cosi
		zg := yk * math.Sin(ik)
		sino := math.Sin(omge * tk)
		coso := math.Cos(omge * tk)
		cos5 := math.Cos(-5 * PI / 180)
		sin5 := math.Sin(-5 * PI / 180)
		xyz.X = xg*coso + yg*sino*cos5 + zg*sino*sin5
		xyz.Y = -xg*sino + yg*coso*cos5 + zg*coso*sin5
		xyz.Z = -yg*sin5 + zg*cos5
		return xyz, ekIter, nil
	}

	sinO := math.Sin(omk)
	cosO := math.Cos(omk)
	cosi := math.Cos(ik)
	xyz.X = xk*cosO - yk*sinO*cosi
	xyz.Y = xk*sinO + yk*cosO*cosi
	xyz.Z = yk * math.Sin(ik)
	return xyz, ekIter, nil
}

// Compute the SV clock correction in seconds at dt = t - ToC so that
// true time = broadcast time - correction. The result is the polynomial
// bias plus the relativistic term and does not include the group delay
// (TGD). ekIn, when non-nil, supplies an eccentric anomaly already solved
// by GpsEcef; otherwise Kepler's equation is solved again here.
func (f *NavDataFrame) GpsDtsv(dt float64, ekIn *float64) (float64, error) {
	return f.GpsDtsvOpt(dt, ekIn, NewKeplerOpt())
}

func (f *NavDataFrame) GpsDtsvOpt(dt float64, ekIn *float64, opt *KeplerOpt) (float64, error) {
	eph := f.Kepler()
	dt = wrapWeek(dt)

	var ek float64
	if ekIn == nil {
		mu, _ := f.muOmge()
		A := eph.SqrtA * eph.SqrtA
		n0 := math.Sqrt(mu / (A * A * A))
		n := n0 + eph.DeltaN
		mk := eph.M0 + n*dt
		var err error
		ek, err = solveKepler(mk, eph.Ecc, opt)
		if err != nil {
			return 0, fmt.Errorf("gps_dtsv %s: %w", f.Sat(), err)
		}
	} else {
		ek = *ekIn
	}

	// Relativistic correction term [s]
	dtr := FClock * eph.Ecc * eph.SqrtA * math.Sin(ek)

	return eph.Af0 + eph.Af1*dt + (eph.Af2*dt)*dt + dtr, nil
}

// Time of ephemeris as a calendar instant in the record's native scale
func (f *NavDataFrame) GpsToeTime() GTime {
	eph := f.Kepler()
	return GTime{Week: eph.Week, Sec: eph.ToeSec}
}

// Compute ECEF position and clock correction at calendar instant t, given
// in the record's native time scale. The day-level offset between t and
// the reference epochs is resolved here once, so the seconds-based
// primitives never see a day-boundary mismatch.
func (f *NavDataFrame) GpsStateAndClock(t GTime) (PosXYZ, float64, error) {
	toe := f.GpsToeTime()
	toeSec := toe.Sod()
	tSec := t.Sod()
	if t.Mjd() > toe.Mjd() {
		tSec += SecInDay
	} else if t.Mjd() < toe.Mjd() {
		tSec -= SecInDay
	}
	xyz, _, err := f.GpsEcef(toeSec, tSec)
	if err != nil {
		return xyz, 0, err
	}
	dti := t.DeltaSec(f.toc)
	dtsv, err := f.GpsDtsv(dti, nil)
	if err != nil {
		return xyz, 0, err
	}
	return xyz, dtsv, nil
}
