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
	"io"
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

// Navigation data for each satellite: slices sorted by time of clock in
// ascending order
type Nav map[SatType][]*NavDataFrame

// Bulk-load a navigation file through a NavReader. Malformed records are
// reported at debug level and skipped; callers needing per-record control
// drive a NavReader themselves.
func ReadNav(fn string) (*Nav, error) {
	rnx, err := OpenNavFile(fn)
	if err != nil {
		return nil, err
	}
	defer rnx.Close()

	nav := Nav{}
	for {
		frame := new(NavDataFrame)
		err := rnx.ReadNextRecord(frame)
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, ErrMalformedRecord) {
				PrintD(2, "ReadNav: skipping record: %s\n", err.Error())
				continue
			}
			return nil, err
		}
		nav[frame.Sat()] = append(nav[frame.Sat()], frame)
	}

	for k := range nav {
		slices.SortFunc(nav[k], func(a, b *NavDataFrame) int {
			at, bt := a.Toc(), b.Toc()
			if at.Less(bt, false) {
				return -1
			}
			if bt.Less(at, false) {
				return 1
			}
			return 0
		})
	}
	return &nav, nil
}

// Maximum distance from the reference time for an ephemeris to count as
// usable, per system (RTKLIB's MAXDTOE values)
func maxDiffToe(sys SysType) float64 {
	switch sys {
	case 'E':
		return 14400
	case 'C':
		return 21601
	default:
		return 7201
	}
}

// Select the frame whose reference time (ToE for Keplerian systems, tb
// for GLONASS/SBAS) is closest to gt, within the per-system limit
func (nav *Nav) GetEphe(sat SatType, gt GTime) (*NavDataFrame, error) {
	frames, ok := (*nav)[sat]
	if !ok {
		return nil, fmt.Errorf("can't find %s", sat)
	}
	diffMax := maxDiffToe(sat.Sys())
	j := -1
	for i, f := range frames {
		var ref GTime
		if f.IsKeplerian() {
			ref = f.GpsToeTime()
		} else {
			ref = f.Toc()
		}
		diff := math.Abs(gt.DeltaSec(ref))
		if diff < diffMax {
			diffMax = diff
			j = i
		}
	}
	if j < 0 {
		return nil, fmt.Errorf("can't find a valid ephemeris for %s", sat)
	}
	return frames[j], nil
}

// Sorted list of satellites present
func (nav *Nav) Sats() []SatType {
	keys := make([]SatType, 0, len(*nav))
	for k := range *nav {
		keys = append(keys, k)
	}
	order := map[byte]int{'G': 0, 'J': 1, 'E': 2, 'R': 3, 'C': 4, 'S': 5, 'I': 6}
	slices.SortFunc(keys, func(a, b SatType) int {
		if d := order[a[0]] - order[b[0]]; d != 0 {
			return d
		}
		return strings.Compare(string(a), string(b))
	})
	return keys
}

// Display navigation data overview
func (nav *Nav) String() string {
	var sb strings.Builder
	sb.WriteString("toc:\n")
	for _, sat := range nav.Sats() {
		sb.WriteString(fmt.Sprintf("\t%s: ", sat))
		if frames := (*nav)[sat]; len(frames) > 0 {
			st := frames[0].Toc()
			et := frames[len(frames)-1].Toc()
			sb.WriteString(fmt.Sprintf("%s - %s (%d)\n",
				st.ToTime().UTC().Format("2006/01/02 15:04:05"), et.ToTime().UTC().Format("2006/01/02 15:04:05"), len(frames)))
		} else {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
