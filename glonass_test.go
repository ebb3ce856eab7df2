// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

package gobrdc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats/scalar"
)

// GLONASS R03 broadcast state vector, tb 2009/02/02 00:15:00 UTC
func gloTestFrame() *NavDataFrame {
	f := &NavDataFrame{sys: 'R', prn: 3}
	f.toc = *NewGTime(time.Date(2009, 2, 2, 0, 15, 0, 0, time.UTC))
	d := []float64{
		7.307808846235e-05, 9.094947017729e-13, 86370, // -taun gamman frame time
		15531.844727, -2.666949272, 0, 0, // x [km] xdot xacc health
		6087.411133, -0.683610916, 9.313225746155e-10, 1, // y ydot yacc freq
		19926.888672, 2.290710449, -2.793967723846e-09, 0, // z zdot zacc age
	}
	copy(f.data[:], d)
	return f
}

func TestGloFrameView(t *testing.T) {
	assert := assert.New(t)
	eph := gloTestFrame().Glo()
	assert.Equal(-7.307808846235e-05, eph.TauN)
	assert.Equal(9.094947017729e-13, eph.GammaN)
	assert.Equal(15531844.727, eph.Pos[0])
	assert.Equal(-2666.949272, eph.Vel[0])
	assert.Equal(1, eph.FreqN)
	assert.Equal(0, eph.Age)
}

func TestGloEcefAtTb(t *testing.T) {
	assert := assert.New(t)
	f := gloTestFrame()
	eph := f.Glo()

	// At the reference instant the model returns the broadcast state
	pos, vel, err := f.GloEcef2(900, 900)
	assert.NoError(err)
	assert.Equal(eph.Pos[0], pos.X)
	assert.Equal(eph.Pos[1], pos.Y)
	assert.Equal(eph.Pos[2], pos.Z)
	assert.Equal(eph.Vel[0], vel.X)

	r := pos.Norm()
	assert.True(r > 20000e3 && r < 30000e3, "r=%.0f", r)
}

func TestGloEcefTaylor(t *testing.T) {
	assert := assert.New(t)
	f := gloTestFrame()
	eph := f.Glo()

	const dt = 300.0
	pos, err := f.GloEcef(900+dt, 900)
	assert.NoError(err)
	assert.Equal(eph.Pos[0]+eph.Vel[0]*dt+eph.Acc[0]*dt*dt/2, pos.X)
	assert.Equal(eph.Pos[1]+eph.Vel[1]*dt+eph.Acc[1]*dt*dt/2, pos.Y)
	assert.Equal(eph.Pos[2]+eph.Vel[2]*dt+eph.Acc[2]*dt*dt/2, pos.Z)
}

func TestGloEcefRange(t *testing.T) {
	assert := assert.New(t)
	f := gloTestFrame()
	_, err := f.GloEcef(900+SecInDay, 900)
	assert.ErrorIs(err, ErrTimeOutOfRange)
	_, err = f.GloDtsv(900+SecInDay, 900)
	assert.ErrorIs(err, ErrTimeOutOfRange)
}

func TestGloEcefIntShortArc(t *testing.T) {
	assert := assert.New(t)
	f := gloTestFrame()

	// The short-arc model ignores the central gravity term the
	// integration carries (~0.65 m/s^2 here), so the two diverge as
	// roughly a*t^2/2
	pos, err := f.GloEcef(901, 900)
	assert.NoError(err)
	posInt, _, err := f.GloEcefInt(901, 900)
	assert.NoError(err)
	assert.True(scalar.EqualWithinAbs(pos.X, posInt.X, 1.0), "dx=%.3f", pos.X-posInt.X)
	assert.True(scalar.EqualWithinAbs(pos.Y, posInt.Y, 1.0), "dy=%.3f", pos.Y-posInt.Y)
	assert.True(scalar.EqualWithinAbs(pos.Z, posInt.Z, 1.0), "dz=%.3f", pos.Z-posInt.Z)

	pos60, err := f.GloEcef(900+60, 900)
	assert.NoError(err)
	posInt60, _, err := f.GloEcefInt(900+60, 900)
	assert.NoError(err)
	assert.True(scalar.EqualWithinAbs(pos60.X, posInt60.X, 2000.0))
	assert.True(scalar.EqualWithinAbs(pos60.Y, posInt60.Y, 2000.0))
	assert.True(scalar.EqualWithinAbs(pos60.Z, posInt60.Z, 2000.0))

	// At the reference instant both agree exactly
	posInt0, _, err := f.GloEcefInt(900, 900)
	assert.NoError(err)
	eph := f.Glo()
	assert.Equal(eph.Pos[0], posInt0.X)
}

func TestGloDtsv(t *testing.T) {
	assert := assert.New(t)
	f := gloTestFrame()
	eph := f.Glo()

	got, err := f.GloDtsv(900, 900)
	assert.NoError(err)
	assert.Equal(-eph.TauN, got)

	got, err = f.GloDtsv(900+600, 900)
	assert.NoError(err)
	assert.Equal(-eph.TauN+eph.GammaN*600, got)
}

func TestGloStateAndClock(t *testing.T) {
	assert := assert.New(t)
	f := gloTestFrame()

	// Epoch 5 minutes after tb, same UTC day
	tm := *NewGTime(time.Date(2009, 2, 2, 0, 20, 0, 0, time.UTC))
	pos, dtsv, err := f.GloStateAndClock(tm)
	assert.NoError(err)

	// Moscow shift cancels in the difference: same as the raw primitives
	// at 300 s past tb
	wantPos, err := f.GloEcef(MoscowShift+1200, MoscowShift+900)
	assert.NoError(err)
	assert.Equal(wantPos, pos)
	wantDt, err := f.GloDtsv(300, 0)
	assert.NoError(err)
	assert.Equal(wantDt, dtsv)
}

func TestGloStateAndClockMoscowDayShift(t *testing.T) {
	assert := assert.New(t)
	// tb 23:00 UTC = 02:00 Moscow time next day
	f := gloTestFrame()
	f.SetToc(*NewGTime(time.Date(2009, 2, 1, 23, 0, 0, 0, time.UTC)))

	// Epoch 20:50 UTC = 23:50 Moscow time, previous Moscow day; the true
	// offset from tb is -7800 s
	tm := *NewGTime(time.Date(2009, 2, 1, 20, 50, 0, 0, time.UTC))
	pos, dtsv, err := f.GloStateAndClock(tm)
	assert.NoError(err)

	wantPos, err := f.GloEcef(-7800, 0)
	assert.NoError(err)
	assert.Equal(wantPos, pos)
	wantDt, err := f.GloDtsv(-7800, 0)
	assert.NoError(err)
	assert.Equal(wantDt, dtsv)
}

// SBAS S33 state vector, t0 2009/02/02 00:00:00 GPS time
func sbasTestFrame() *NavDataFrame {
	f := &NavDataFrame{sys: 'S', prn: 33}
	f.toc = *NewGTime(time.Date(2009, 2, 2, 0, 0, 0, 0, time.UTC))
	d := []float64{
		1.862645149231e-09, 0, 86370, // agf0 agf1 tot
		40283.290234, -0.000152, 0, 0, // x xdot xacc health
		-11724.965820, 0.003216, 0, 2, // y ydot yacc ura
		-62.617188, 0.000921, 0, 17, // z zdot zacc iodn
	}
	copy(f.data[:], d)
	return f
}

func TestSbasStateAndClock(t *testing.T) {
	assert := assert.New(t)
	f := sbasTestFrame()
	eph := f.Sbas()

	tm := *NewGTime(time.Date(2009, 2, 2, 0, 10, 0, 0, time.UTC))
	pos, dtsv, err := f.SbasStateAndClock(tm)
	assert.NoError(err)

	const dt = 600.0
	assert.Equal(eph.Pos[0]+eph.Vel[0]*dt, pos.X)
	assert.Equal(eph.Gf0+eph.Gf1*dt, dtsv)
	assert.Equal(17, eph.Iodn)

	// GEO orbital radius, roughly 42000 km
	r := pos.Norm()
	assert.True(r > 40000e3 && r < 44000e3, "r=%.0f", r)
}

func TestStateAndClockDispatch(t *testing.T) {
	assert := assert.New(t)

	g := gpsTestFrame()
	tm := GTime{Week: 2086, Sec: 259200 + 600}
	wantPos, wantDt, err := g.GpsStateAndClock(tm)
	assert.NoError(err)
	pos, dt, err := g.StateAndClock(tm)
	assert.NoError(err)
	assert.Equal(wantPos, pos)
	assert.Equal(wantDt, dt)

	r := gloTestFrame()
	tmr := *NewGTime(time.Date(2009, 2, 2, 0, 20, 0, 0, time.UTC))
	wantPos, wantDt, err = r.GloStateAndClock(tmr)
	assert.NoError(err)
	pos, dt, err = r.StateAndClock(tmr)
	assert.NoError(err)
	assert.Equal(wantPos, pos)
	assert.Equal(wantDt, dt)

	bad := &NavDataFrame{sys: 'X'}
	_, _, err = bad.StateAndClock(tm)
	assert.Error(err)
}
