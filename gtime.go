// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

package gobrdc

import (
	"math"
	"time"
)

// Time as week number and seconds into the week, counted from the GPS
// epoch 1980/1/6 00:00:00. The same encoding is used for instants in other
// time scales (BDT, UTC for GLONASS); the scale is whatever the producing
// record uses, and callers must not mix scales when differencing.
type GTime struct {
	Week int
	Sec  float64
}

// MJD of the GPS epoch 1980/1/6
const mjdGPSEpoch = 44244

func NewGTime(dt time.Time) *GTime {
	t := dt.Unix()
	t -= time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC).Unix() // Elapsed seconds since 1980/1/6 00:00:00
	return &GTime{
		Week: int(t / (3600 * 24 * 7)),
		Sec:  float64(t%(3600*24*7)) + float64(dt.Nanosecond())/1000000000,
	}
}

func (p *GTime) ToTime() time.Time {
	o := time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC).Unix() // GPS time starts from 1980/1/6 00:00:00
	i := int64(math.Trunc(p.Sec))
	t := int64(3600*24*7*p.Week) + i + o
	n := int64((p.Sec - float64(i)) * 1e9)
	return time.Unix(t, n) // Unix time is the elapsed seconds since 1970/1/1 00:00:00
}

// Modified Julian Day number of the calendar day this instant falls on
func (p *GTime) Mjd() int {
	return mjdGPSEpoch + p.Week*7 + int(math.Floor(p.Sec/SecInDay))
}

// Seconds into the calendar day
func (p *GTime) Sod() float64 {
	return math.Mod(p.Sec, SecInDay)
}

// Seconds of b subtracted from p. Valid only when both instants are
// expressed in the same time scale.
func (p *GTime) DeltaSec(b GTime) float64 {
	return float64(p.Week-b.Week)*SecInWeek + (p.Sec - b.Sec)
}

// Add (possibly negative) seconds, renormalizing the week
func (p *GTime) AddSeconds(sec float64) GTime {
	t := GTime{Week: p.Week, Sec: p.Sec + sec}
	for t.Sec >= SecInWeek {
		t.Sec -= SecInWeek
		t.Week++
	}
	for t.Sec < 0 {
		t.Sec += SecInWeek
		t.Week--
	}
	return t
}

func (p *GTime) Less(b GTime, roundSec bool) bool {
	if p.Week == b.Week {
		if roundSec {
			return math.Round(p.Sec) < math.Round(b.Sec)
		} else {
			return p.Sec < b.Sec
		}
	} else {
		return p.Week < b.Week
	}
}

func (p *GTime) Before(t time.Time, roundSec bool) bool {
	return p.Less(*NewGTime(t), roundSec)
}

func (p *GTime) After(t time.Time, roundSec bool) bool {
	return NewGTime(t).Less(*p, roundSec)
}
