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

// Requested epoch is too far from the broadcast reference time for the
// short-arc state model to be meaningful.
var ErrTimeOutOfRange = errors.New("epoch too far from broadcast reference time")

// Integration step for the numerical GLONASS orbit variant [s]
const gloTStep = 60.0

// Reference time tb of the broadcast state vector as a calendar instant.
// The record carries it as ToC in UTC; toMT shifts it to Moscow time,
// the convention the propagation formulas work in.
func (f *NavDataFrame) GloTbTime(toMT bool) GTime {
	if toMT {
		return f.toc.AddSeconds(MoscowShift)
	}
	return f.toc
}

// Compute the SV center-of-mass position in the PZ-90 ECEF frame with the
// simplified short-arc model: a Taylor extrapolation of the broadcast
// position/velocity/acceleration. No iteration and no integration; valid
// near tb. tSod and tbSod are seconds of the same (Moscow-time) day,
// aligned by the caller.
func (f *NavDataFrame) GloEcef(tSod, tbSod float64) (PosXYZ, error) {
	xyz, _, err := f.GloEcef2(tSod, tbSod)
	return xyz, err
}

// Same as GloEcef but also returns the extrapolated velocity [m/s]
func (f *NavDataFrame) GloEcef2(tSod, tbSod float64) (PosXYZ, PosXYZ, error) {
	var pos, vel PosXYZ
	dt := tSod - tbSod
	if math.Abs(dt) > SecInDay/2 {
		return pos, vel, fmt.Errorf("glo_ecef %s: dt=%.0fs: %w", f.Sat(), dt, ErrTimeOutOfRange)
	}
	eph := f.Glo()
	pos.X = eph.Pos[0] + eph.Vel[0]*dt + eph.Acc[0]*dt*dt/2
	pos.Y = eph.Pos[1] + eph.Vel[1]*dt + eph.Acc[1]*dt*dt/2
	pos.Z = eph.Pos[2] + eph.Vel[2]*dt + eph.Acc[2]*dt*dt/2
	vel.X = eph.Vel[0] + eph.Acc[0]*dt
	vel.Y = eph.Vel[1] + eph.Acc[1]*dt
	vel.Z = eph.Vel[2] + eph.Acc[2]*dt
	return pos, vel, nil
}

// GLONASS orbit differential equations in the rotating PZ-90 frame,
// J2 perturbation included
func gloDeq(x [6]float64, xdot *[6]float64, acc [3]float64) {
	const omg2 = OmegaEGLO * OmegaEGLO
	r2 := x[0]*x[0] + x[1]*x[1] + x[2]*x[2]
	r3 := r2 * math.Sqrt(r2)
	if r2 <= 0 {
		*xdot = [6]float64{}
		return
	}
	a := 1.5 * J2GLO * MuGLO * (ReGLO * ReGLO) / r2 / r3
	b := 5.0 * x[2] * x[2] / r2
	c := -MuGLO/r3 - a*(1.0-b)
	xdot[0] = x[3]
	xdot[1] = x[4]
	xdot[2] = x[5]
	xdot[3] = (c+omg2)*x[0] + 2.0*OmegaEGLO*x[4] + acc[0]
	xdot[4] = (c+omg2)*x[1] - 2.0*OmegaEGLO*x[3] + acc[1]
	xdot[5] = (c-2.0*a)*x[2] + acc[2]
}

// One RK4 step of the state vector over t seconds
func gloOrbit(t float64, x *[6]float64, acc [3]float64) {
	var k1, k2, k3, k4, w [6]float64
	gloDeq(*x, &k1, acc)
	for i := 0; i < 6; i++ {
		w[i] = x[i] + k1[i]*t/2.0
	}
	gloDeq(w, &k2, acc)
	for i := 0; i < 6; i++ {
		w[i] = x[i] + k2[i]*t/2.0
	}
	gloDeq(w, &k3, acc)
	for i := 0; i < 6; i++ {
		w[i] = x[i] + k3[i]*t
	}
	gloDeq(w, &k4, acc)
	for i := 0; i < 6; i++ {
		x[i] += (k1[i] + 2.0*k2[i] + 2.0*k3[i] + k4[i]) * t / 6.0
	}
}

// Higher-accuracy GLONASS variant: numerical RK4 integration of the
// broadcast state through the PZ-90 force model, 60 s steps. Same inputs
// and frame as GloEcef.
func (f *NavDataFrame) GloEcefInt(tSod, tbSod float64) (PosXYZ, PosXYZ, error) {
	var pos, vel PosXYZ
	tk := tSod - tbSod
	if math.Abs(tk) > SecInDay/2 {
		return pos, vel, fmt.Errorf("glo_ecef_int %s: dt=%.0fs: %w", f.Sat(), tk, ErrTimeOutOfRange)
	}
	eph := f.Glo()
	x := [6]float64{eph.Pos[0], eph.Pos[1], eph.Pos[2], eph.Vel[0], eph.Vel[1], eph.Vel[2]}
	tt := gloTStep
	if tk < 0 {
		tt = -gloTStep
	}
	for math.Abs(tk) > 1e-9 {
		if math.Abs(tk) < gloTStep {
			tt = tk
		}
		gloOrbit(tt, &x, eph.Acc)
		tk -= tt
	}
	pos.X, pos.Y, pos.Z = x[0], x[1], x[2]
	vel.X, vel.Y, vel.Z = x[3], x[4], x[5]
	return pos, vel, nil
}

// Compute the GLONASS SV clock correction in seconds at tSod, from the
// broadcast (-TauN, GammaN) pair evaluated against tbSod. The broadcast
// pair is defined to absorb the relativistic term, so none is added here.
func (f *NavDataFrame) GloDtsv(tSod, tbSod float64) (float64, error) {
	dt := tSod - tbSod
	if math.Abs(dt) > SecInDay/2 {
		return 0, fmt.Errorf("glo_dtsv %s: dt=%.0fs: %w", f.Sat(), dt, ErrTimeOutOfRange)
	}
	eph := f.Glo()
	return -eph.TauN + eph.GammaN*dt, nil
}

// Compute PZ-90 ECEF position and clock correction at calendar instant t
// given in UTC. Both t and tb are shifted to Moscow time and day-aligned
// before delegating to the seconds-of-day primitives.
func (f *NavDataFrame) GloStateAndClock(t GTime) (PosXYZ, float64, error) {
	var xyz PosXYZ
	ti := t.AddSeconds(MoscowShift)
	tb := f.GloTbTime(true)
	sec := ti.Sod()
	tbSec := tb.Sod()
	if ti.Mjd() > tb.Mjd() {
		sec += SecInDay
	} else if ti.Mjd() < tb.Mjd() {
		sec -= SecInDay
	}
	xyz, err := f.GloEcef(sec, tbSec)
	if err != nil {
		return xyz, 0, err
	}
	dtsv, err := f.GloDtsv(sec, tbSec)
	if err != nil {
		return xyz, 0, err
	}
	return xyz, dtsv, nil
}

// Compute the SBAS SV position with the same short-arc extrapolation as
// GLONASS. SBAS records are referenced to GPS time, so no Moscow shift
// applies. tSec and t0Sec are seconds of the same day.
func (f *NavDataFrame) SbasEcef(tSec, t0Sec float64) (PosXYZ, error) {
	var pos PosXYZ
	dt := tSec - t0Sec
	if math.Abs(dt) > SecInDay/2 {
		return pos, fmt.Errorf("sbas_ecef %s: dt=%.0fs: %w", f.Sat(), dt, ErrTimeOutOfRange)
	}
	eph := f.Sbas()
	pos.X = eph.Pos[0] + eph.Vel[0]*dt + eph.Acc[0]*dt*dt/2
	pos.Y = eph.Pos[1] + eph.Vel[1]*dt + eph.Acc[1]*dt*dt/2
	pos.Z = eph.Pos[2] + eph.Vel[2]*dt + eph.Acc[2]*dt*dt/2
	return pos, nil
}

// SBAS SV clock correction from the broadcast (aGf0, aGf1) pair
func (f *NavDataFrame) SbasDtsv(tSec, t0Sec float64) (float64, error) {
	dt := tSec - t0Sec
	if math.Abs(dt) > SecInDay/2 {
		return 0, fmt.Errorf("sbas_dtsv %s: dt=%.0fs: %w", f.Sat(), dt, ErrTimeOutOfRange)
	}
	eph := f.Sbas()
	return eph.Gf0 + eph.Gf1*dt, nil
}

// Compute SBAS ECEF position and clock correction at calendar instant t
// given in GPS time
func (f *NavDataFrame) SbasStateAndClock(t GTime) (PosXYZ, float64, error) {
	var xyz PosXYZ
	t0 := f.toc
	sec := t.Sod()
	t0Sec := t0.Sod()
	if t.Mjd() > t0.Mjd() {
		sec += SecInDay
	} else if t.Mjd() < t0.Mjd() {
		sec -= SecInDay
	}
	xyz, err := f.SbasEcef(sec, t0Sec)
	if err != nil {
		return xyz, 0, err
	}
	dtsv, err := f.SbasDtsv(sec, t0Sec)
	if err != nil {
		return xyz, 0, err
	}
	return xyz, dtsv, nil
}

// Dispatch to the per-system state-and-clock operation by the record's
// system tag
func (f *NavDataFrame) StateAndClock(t GTime) (PosXYZ, float64, error) {
	switch {
	case f.IsKeplerian():
		return f.GpsStateAndClock(t)
	case f.sys == 'R':
		return f.GloStateAndClock(t)
	case f.sys == 'S':
		return f.SbasStateAndClock(t)
	}
	var xyz PosXYZ
	return xyz, 0, fmt.Errorf("state and clock: unsupported satellite system '%c'", f.sys)
}
