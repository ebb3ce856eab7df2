// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	m "github.com/mkhts/gobrdc"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Structure to hold command line argument information
type cmdOpt struct {
	navFn  string
	sats   m.SatVar
	epoch  time.Time
	obsPos m.PosLLH
	hasObs bool
	list   bool
}

// Parse command line arguments
func parseArgs() (a cmdOpt, err error) {
	flag.Usage = func() {
		m.PrintA(`
[Usage]
	%s [Options] nav_file.nav

[Options]
`, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Var(&a.sats, "sat", "Satellites to compute, comma-separated without spaces like G01,R03. Default: all satellites in the file.")
	var t m.TimeStr
	flag.TextVar(&t, "t", m.NewTimeStr(time.Time{}), "Epoch to compute the state at, interpreted in each record's native time scale. Enclose in quotes like -t \"2009/02/02 01:00:00\". Default: each record's time of clock.")
	var obsPos m.PosLLH
	flag.Var(&obsPos, "l", "Observer latitude/longitude/ellipsoidal height for azimuth/elevation output. Enclose in quotes like -l \"35.731 139.739 80.3\"")
	flag.BoolVar(&a.list, "list", false, "Only print an overview of the records in the file.")
	var dbg int
	flag.IntVar(&dbg, "x", 0, "Debug information display level. 0(OFF), 1(display), 2(detailed display)")
	flag.Parse()
	if flag.NArg() != 1 {
		return a, fmt.Errorf("exactly one navigation file expected")
	}
	a.navFn = flag.Arg(0)
	a.epoch = time.Time(t)
	a.obsPos = obsPos
	a.hasObs = obsPos.Lat != 0 || obsPos.Lon != 0 || obsPos.Hei != 0
	m.DBG_ = dbg
	return
}

// Main application processing
func runApplication(args cmdOpt) error {

	nav, err := m.ReadNav(args.navFn)
	if err != nil {
		return fmt.Errorf("failed to read navigation file: %w", err)
	}

	if args.list {
		fmt.Print(nav)
		return nil
	}

	sats := args.sats
	if len(sats) == 0 {
		sats = nav.Sats()
	}

	printHeader(os.Stdout, args)

	for _, sat := range sats {
		if err := printState(os.Stdout, nav, sat, args); err != nil {
			m.PrintD(1, "%s: %s\n", sat, err.Error())
			continue
		}
	}
	return nil
}

func printHeader(w *os.File, args cmdOpt) {
	fmt.Fprintf(w, "%% inp file  : %s\n", args.navFn)
	if args.hasObs {
		fmt.Fprintf(w, "%% obs pos   : %.8f %.8f %.3f\n", m.ToDeg(args.obsPos.Lat), m.ToDeg(args.obsPos.Lon), args.obsPos.Hei)
		fmt.Fprintf(w, "%% sat  epoch                          x(m)           y(m)           z(m)      clk_corr(s)    az(deg)   el(deg)\n")
	} else {
		fmt.Fprintf(w, "%% sat  epoch                          x(m)           y(m)           z(m)      clk_corr(s)\n")
	}
}

// Compute and print one satellite's state at the requested epoch
func printState(w *os.File, nav *m.Nav, sat m.SatType, args cmdOpt) error {

	// Epoch defaults to the newest record's time of clock
	var gt m.GTime
	if args.epoch.IsZero() {
		frames := (*nav)[sat]
		if len(frames) == 0 {
			return fmt.Errorf("no records")
		}
		gt = frames[len(frames)-1].Toc()
	} else {
		gt = *m.NewGTime(args.epoch)
	}

	frame, err := nav.GetEphe(sat, gt)
	if err != nil {
		return err
	}

	xyz, dtsv, err := frame.StateAndClock(gt)
	if err != nil {
		return err
	}

	ts := gt.ToTime().UTC().Format("2006/01/02 15:04:05")
	if args.hasObs {
		obs := args.obsPos.ToXYZ()
		az := obs.Azimuth(xyz)
		el := obs.Elevation(xyz)
		fmt.Fprintf(w, "%s  %s %14.3f %14.3f %14.3f %16.9e %10.3f %9.3f\n",
			sat, ts, xyz.X, xyz.Y, xyz.Z, dtsv, m.ToDeg(az), m.ToDeg(el))
	} else {
		fmt.Fprintf(w, "%s  %s %14.3f %14.3f %14.3f %16.9e\n",
			sat, ts, xyz.X, xyz.Y, xyz.Z, dtsv)
	}
	return nil
}
