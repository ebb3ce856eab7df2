// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

package gobrdc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSatType(t *testing.T) {
	assert := assert.New(t)

	sat := SatType("G01")
	assert.Equal(SysType('G'), sat.Sys())
	assert.Equal(1, sat.Num())

	sat = SatType("R24")
	assert.Equal(SysType('R'), sat.Sys())
	assert.Equal(24, sat.Num())

	for _, s := range []SysType{'G', 'J', 'E', 'R', 'C', 'S', 'I'} {
		assert.True(s.IsValid(), "%c", s)
	}
	for _, s := range []SysType{'M', 'X', ' '} {
		assert.False(s.IsValid(), "%c", s)
	}
}

func TestFrameSatAndKind(t *testing.T) {
	assert := assert.New(t)

	f := &NavDataFrame{sys: 'J', prn: 2}
	assert.Equal(SatType("J02"), f.Sat())
	assert.True(f.IsKeplerian())

	f = &NavDataFrame{sys: 'R', prn: 17}
	assert.Equal(SatType("R17"), f.Sat())
	assert.False(f.IsKeplerian())

	f = &NavDataFrame{sys: 'S', prn: 33}
	assert.False(f.IsKeplerian())
}

func TestKeplerViewBdsWeek(t *testing.T) {
	assert := assert.New(t)

	// BeiDou records carry BDT week numbers; the view aligns them with the
	// GPS numbering used everywhere else
	f := &NavDataFrame{sys: 'C', prn: 14}
	f.SetData(21, 730)
	assert.Equal(730+BDTWeekOff, f.Kepler().Week)

	g := &NavDataFrame{sys: 'G', prn: 1}
	g.SetData(21, 2086)
	assert.Equal(2086, g.Kepler().Week)
}

func TestGloViewNegativeFreqN(t *testing.T) {
	assert := assert.New(t)

	// Some producers encode negative channels as unsigned bytes
	f := &NavDataFrame{sys: 'R', prn: 5}
	f.SetData(10, 249)
	assert.Equal(-7, f.Glo().FreqN)

	f.SetData(10, 3)
	assert.Equal(3, f.Glo().FreqN)
}
