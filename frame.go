// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

package gobrdc

import (
	"fmt"
	"strconv"
)

// Type representing satellite name like "G10"
type SatType string

// Type representing satellite system like 'G'
type SysType byte

// Extract satellite system from satellite name
func (p *SatType) Sys() SysType {
	return SysType((*p)[0])
}

// Check validity of satellite system
func (p *SysType) IsValid() bool {
	return *p == 'G' || *p == 'J' || *p == 'E' || *p == 'R' || *p == 'C' || *p == 'S' || *p == 'I'
}

// Extract satellite number from satellite name
func (p *SatType) Num() int {
	i, err := strconv.Atoi(string((*p)[1:3]))
	if err != nil {
		return 0
	}
	return i
}

// Number of raw data slots in a RINEX 3.x navigation record. GPS-family
// records fill all 31 (3 on the epoch line, 7 data lines of 4); GLONASS
// and SBAS records fill the first 15 and leave the rest zero.
const NumDataSlots = 31

// One decoded broadcast navigation message. The raw slot array keeps the
// RINEX field order; its meaning depends on the satellite system:
//
// GPS/QZSS/Galileo/BeiDou/IRNSS (ToC in the system's own time scale):
//	slot  0-2 : SV clock bias [s], drift [s/s], drift rate [s/s^2]
//	slot  3   : IODE (BDS: AODE, IRNSS: IODEC)
//	slot  4-6 : Crs [m], Delta-n [rad/s], M0 [rad]
//	slot  7-10: Cuc [rad], e, Cus [rad], sqrt(A) [sqrt(m)]
//	slot 11   : Toe, seconds into the week of slot 21
//	slot 12-15: Cic [rad], OMEGA0 [rad], Cis [rad], i0 [rad]
//	slot 16-19: Crc [m], omega [rad], OMEGADOT [rad/s], IDOT [rad/s]
//	slot 20-24: codes on L2, week (BDT week for BDS), L2P flag, accuracy [m], health
//	slot 25-28: TGD [s], IODC, transmission time [s], fit interval [h]
//	slot 29-30: spare
//
// GLONASS (ToC in UTC):
//	slot  0-2 : -TauN [s], GammaN, message frame time [s of UTC week]
//	slot  3-6 : X [km], Xdot [km/s], Xacc [km/s^2], health
//	slot  7-10: Y [km], Ydot [km/s], Yacc [km/s^2], frequency number
//	slot 11-14: Z [km], Zdot [km/s], Zacc [km/s^2], age of operation [days]
//
// SBAS (ToC in GPS time):
//	slot  0-2 : aGf0 [s], aGf1 [s/s], transmission time [s of GPS week]
//	slot  3-6 : X [km], Xdot [km/s], Xacc [km/s^2], health
//	slot  7-10: Y [km], Ydot [km/s], Yacc [km/s^2], URA [m]
//	slot 11-14: Z [km], Zdot [km/s], Zacc [km/s^2], IODN
//
// Raw slot access via Data is the escape hatch; the typed views Kepler,
// Glo and Sbas are the supported way to read a frame.
type NavDataFrame struct {
	sys  SysType
	prn  int
	toc  GTime
	data [NumDataSlots]float64
}

func (f *NavDataFrame) Sys() SysType { return f.sys }
func (f *NavDataFrame) Prn() int     { return f.prn }
func (f *NavDataFrame) Toc() GTime   { return f.toc }

func (f *NavDataFrame) SetToc(t GTime) { f.toc = t }

// Satellite name like "G01"
func (f *NavDataFrame) Sat() SatType {
	return SatType(fmt.Sprintf("%c%02d", f.sys, f.prn))
}

// Raw positional slot access (see the layout table above)
func (f *NavDataFrame) Data(idx int) float64 {
	return f.data[idx]
}

func (f *NavDataFrame) SetData(idx int, v float64) {
	f.data[idx] = v
}

// True for systems broadcasting Keplerian elements
func (f *NavDataFrame) IsKeplerian() bool {
	switch f.sys {
	case 'G', 'J', 'E', 'C', 'I':
		return true
	}
	return false
}

// Keplerian broadcast elements, shared by GPS, QZSS, Galileo, BeiDou and
// IRNSS records (BeiDou weeks are BDT weeks, see Week)
type KeplerEph struct {
	Af0    float64 // SV clock bias [s]
	Af1    float64 // SV clock drift [s/s]
	Af2    float64 // SV clock drift rate [s/s^2]
	Iode   int
	Crs    float64
	DeltaN float64
	M0     float64
	Cuc    float64
	Ecc    float64
	Cus    float64
	SqrtA  float64
	ToeSec float64 // Toe as seconds into Week
	Cic    float64
	Omega0 float64
	Cis    float64
	I0     float64
	Crc    float64
	Omega  float64
	OmegaD float64
	Idot   float64
	Code   int
	Week   int // GPS week numbering (BDT week + offset for BeiDou)
	Flag   int
	Sva    float64 // SV accuracy [m]
	Svh    int
	Tgd    float64
	Iodc   int
	Tot    float64 // Transmission time of message [s of week]
	Fit    float64
}

// Decode the slot array as a Keplerian record. Only meaningful when
// IsKeplerian() is true; the caller checks the system tag first.
func (f *NavDataFrame) Kepler() KeplerEph {
	wk := int(f.data[21])
	if f.sys == 'C' {
		wk += BDTWeekOff
	}
	return KeplerEph{
		Af0:    f.data[0],
		Af1:    f.data[1],
		Af2:    f.data[2],
		Iode:   int(f.data[3]),
		Crs:    f.data[4],
		DeltaN: f.data[5],
		M0:     f.data[6],
		Cuc:    f.data[7],
		Ecc:    f.data[8],
		Cus:    f.data[9],
		SqrtA:  f.data[10],
		ToeSec: f.data[11],
		Cic:    f.data[12],
		Omega0: f.data[13],
		Cis:    f.data[14],
		I0:     f.data[15],
		Crc:    f.data[16],
		Omega:  f.data[17],
		OmegaD: f.data[18],
		Idot:   f.data[19],
		Code:   int(f.data[20]),
		Week:   wk,
		Flag:   int(f.data[22]),
		Sva:    f.data[23],
		Svh:    int(f.data[24]),
		Tgd:    f.data[25],
		Iodc:   int(f.data[26]),
		Tot:    f.data[27],
		Fit:    f.data[28],
	}
}

// GLONASS broadcast state vector in the PZ-90 frame, converted to meters
type GloEph struct {
	TauN   float64 // Clock offset -a_f0 [s]; slot 0 holds -TauN
	GammaN float64 // Relative frequency bias
	Tof    float64 // Message frame time [s of UTC week]
	Pos    [3]float64
	Vel    [3]float64
	Acc    [3]float64
	Svh    int
	FreqN  int
	Age    int
}

// Decode the slot array as a GLONASS record (system tag 'R')
func (f *NavDataFrame) Glo() GloEph {
	fn := int(f.data[10])
	if fn > 128 {
		fn -= 256
	}
	return GloEph{
		TauN:   -f.data[0],
		GammaN: f.data[1],
		Tof:    f.data[2],
		Pos:    [3]float64{f.data[3] * 1000, f.data[7] * 1000, f.data[11] * 1000},
		Vel:    [3]float64{f.data[4] * 1000, f.data[8] * 1000, f.data[12] * 1000},
		Acc:    [3]float64{f.data[5] * 1000, f.data[9] * 1000, f.data[13] * 1000},
		Svh:    int(f.data[6]),
		FreqN:  fn,
		Age:    int(f.data[14]),
	}
}

// SBAS broadcast state vector, converted to meters
type SbasEph struct {
	Gf0  float64 // aGf0 [s]
	Gf1  float64 // aGf1 [s/s]
	Tot  float64 // Transmission time [s of GPS week]
	Pos  [3]float64
	Vel  [3]float64
	Acc  [3]float64
	Svh  int
	Ura  float64
	Iodn int
}

// Decode the slot array as an SBAS record (system tag 'S')
func (f *NavDataFrame) Sbas() SbasEph {
	return SbasEph{
		Gf0:  f.data[0],
		Gf1:  f.data[1],
		Tot:  f.data[2],
		Pos:  [3]float64{f.data[3] * 1000, f.data[7] * 1000, f.data[11] * 1000},
		Vel:  [3]float64{f.data[4] * 1000, f.data[8] * 1000, f.data[12] * 1000},
		Acc:  [3]float64{f.data[5] * 1000, f.data[9] * 1000, f.data[13] * 1000},
		Svh:  int(f.data[6]),
		Ura:  f.data[10],
		Iodn: int(f.data[14]),
	}
}
