// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

package gobrdc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// The record being read has a wrong line count, an unparsable numeric
// field or an unrecognized satellite-system discriminator. The stream is
// left past the bytes consumed so far; callers re-sync with
// IgnoreNextBlock or Rewind.
var ErrMalformedRecord = errors.New("malformed navigation record")

// RINEX 3.04 specification
// https://files.igs.org/pub/data/format/rinex304.pdf
//

// Reader over one RINEX 3.x navigation file. It owns the file handle and
// a single stream cursor: one record per ReadNextRecord call, with
// peek/skip/rewind on the same cursor. Not safe for concurrent use and
// must not be copied.
type NavReader struct {
	filename  string
	f         *os.File
	r         *bufio.Reader
	version   float64
	sys       SysType // Declared satellite system ('M' for mixed files)
	endOfHead int64   // Byte offset just past the END OF HEADER line
}

// Open a navigation file and parse its header eagerly. Failure to open
// the file, an unsupported version or a missing header terminator make
// construction fail; no reader is returned in that case.
func OpenNavFile(fn string) (*NavReader, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("open nav file: %w", err)
	}
	nr := &NavReader{
		filename: fn,
		f:        f,
		r:        bufio.NewReader(f),
	}
	if err := nr.readHeader(); err != nil {
		f.Close()
		return nil, fmt.Errorf("read nav header %s: %w", fn, err)
	}
	return nr, nil
}

func (nr *NavReader) Close() error {
	return nr.f.Close()
}

// RINEX version from the header, e.g. 3.04
func (nr *NavReader) Version() float64 {
	return nr.version
}

// Satellite system declared in the header; 'M' for mixed files
func (nr *NavReader) SatSys() SysType {
	return nr.sys
}

// Extract the HEADER LABEL string (columns 61-80) from a header line
func getHeaderLabel(l string) string {
	if len(l) < 60 {
		return ""
	}
	return strings.TrimSpace(l[60:])
}

// Read the header, validate version/type and remember the stream
// position right after the END OF HEADER line
func (nr *NavReader) readHeader() error {
	var pos int64
	versionSeen := false
	for {
		line, err := nr.r.ReadString('\n')
		if len(line) == 0 && err != nil {
			return fmt.Errorf("header terminator not found")
		}
		pos += int64(len(line))
		line = strings.TrimRight(line, "\r\n")

		switch getHeaderLabel(line) {
		case "RINEX VERSION / TYPE":
			v, err := strconv.ParseFloat(strings.TrimSpace(line[:9]), 64)
			if err != nil {
				return fmt.Errorf("bad version field: %q", line[:9])
			}
			if v < 3.0 || v >= 4.0 {
				return fmt.Errorf("unsupported RINEX version %.2f (only 3.x)", v)
			}
			if line[20] != 'N' {
				return fmt.Errorf("not a navigation message file (type=%c)", line[20])
			}
			nr.version = v
			nr.sys = SysType(line[40])
			versionSeen = true
		case "END OF HEADER":
			if !versionSeen {
				return fmt.Errorf("missing RINEX VERSION / TYPE line")
			}
			nr.endOfHead = pos
			return nil
		}
	}
}

// Number of continuation lines after the epoch line of a record
func dataLinesFor(sys SysType) int {
	switch sys {
	case 'G', 'J', 'E', 'C', 'I':
		return 7
	case 'R', 'S':
		return 3
	}
	return 0
}

// Read one 19-character float field, absorbing the FORTRAN D exponent.
// Blank fields decode as zero so trailing slots stay zero-filled.
func parseField(line string, from, to int) (float64, error) {
	if from >= len(line) {
		return 0, nil
	}
	if to > len(line) {
		to = len(line)
	}
	s := strings.TrimSpace(line[from:to])
	if s == "" {
		return 0, nil
	}
	if strings.ContainsAny(s, "Dd") {
		s = strings.Replace(s, "D", "E", 1)
		s = strings.Replace(s, "d", "e", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad numeric field %q: %w", s, ErrMalformedRecord)
	}
	return v, nil
}

func parseIntField(line string, from, to int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(line[from:to]))
	if err != nil {
		return 0, fmt.Errorf("bad integer field %q: %w", line[from:to], ErrMalformedRecord)
	}
	return i, nil
}

// Decode the epoch line: system, PRN and time of clock (calendar fields
// in the record's native time scale), plus the first three data slots
func parseEpochLine(line string, frame *NavDataFrame) error {
	if len(line) < 23 {
		return fmt.Errorf("epoch line too short (%d chars): %w", len(line), ErrMalformedRecord)
	}
	sys := SysType(line[0])
	if !sys.IsValid() {
		return fmt.Errorf("unknown satellite system '%c': %w", line[0], ErrMalformedRecord)
	}
	prn, err := parseIntField(line, 1, 3)
	if err != nil {
		return err
	}
	var c [6]int // year month day hour min sec
	cols := [6][2]int{{4, 8}, {9, 11}, {12, 14}, {15, 17}, {18, 20}, {21, 23}}
	for i, w := range cols {
		c[i], err = parseIntField(line, w[0], w[1])
		if err != nil {
			return err
		}
	}
	frame.sys = sys
	frame.prn = prn
	frame.toc = *NewGTime(time.Date(c[0], time.Month(c[1]), c[2], c[3], c[4], c[5], 0, time.UTC))
	for i, w := range [3][2]int{{23, 42}, {42, 61}, {61, 80}} {
		v, err := parseField(line, w[0], w[1])
		if err != nil {
			return err
		}
		frame.data[i] = v
	}
	return nil
}

// Read and fully decode the next navigation record into frame. Returns
// io.EOF once no records remain; a record with missing continuation
// lines or unparsable fields returns an error wrapping
// ErrMalformedRecord.
func (nr *NavReader) ReadNextRecord(frame *NavDataFrame) error {
	line, err := nr.readLine()
	if err != nil {
		return err
	}
	*frame = NavDataFrame{}
	if err := parseEpochLine(line, frame); err != nil {
		return err
	}
	n := dataLinesFor(frame.sys)
	for li := 0; li < n; li++ {
		line, err := nr.readLine()
		if err != nil {
			return fmt.Errorf("record %s: %d of %d data lines: %w", frame.Sat(), li, n, ErrMalformedRecord)
		}
		if len(line) == 0 || line[0] != ' ' {
			// Next record's epoch line: the current record is truncated
			return fmt.Errorf("record %s: %d of %d data lines: %w", frame.Sat(), li, n, ErrMalformedRecord)
		}
		for fi, w := range [4][2]int{{4, 23}, {23, 42}, {42, 61}, {61, 80}} {
			v, err := parseField(line, w[0], w[1])
			if err != nil {
				return fmt.Errorf("record %s line %d: %w", frame.Sat(), li+1, err)
			}
			frame.data[3+li*4+fi] = v
		}
	}
	return nil
}

// Report the satellite system of the next record without consuming it.
// The stream position is unchanged.
func (nr *NavReader) PeekSatSys() (SysType, error) {
	b, err := nr.r.Peek(1)
	if err != nil {
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("peek: %w", err)
	}
	sys := SysType(b[0])
	if !sys.IsValid() {
		return 0, fmt.Errorf("unknown satellite system '%c': %w", b[0], ErrMalformedRecord)
	}
	return sys, nil
}

// Advance past the next record without decoding it
func (nr *NavReader) IgnoreNextBlock() error {
	sys, err := nr.PeekSatSys()
	if err != nil {
		return err
	}
	for i := 0; i < dataLinesFor(sys)+1; i++ {
		if _, err := nr.readLine(); err != nil {
			return fmt.Errorf("skip record: %w", ErrMalformedRecord)
		}
	}
	return nil
}

// Reposition the stream at the end-of-header mark for a second pass over
// all records
func (nr *NavReader) Rewind() error {
	if _, err := nr.f.Seek(nr.endOfHead, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", nr.filename, err)
	}
	nr.r.Reset(nr.f)
	return nil
}

// Next line without the trailing newline; io.EOF only on a clean end of
// stream before any bytes
func (nr *NavReader) readLine() (string, error) {
	line, err := nr.r.ReadString('\n')
	if len(line) == 0 && err != nil {
		return "", io.EOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}
