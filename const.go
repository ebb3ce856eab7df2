// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.11.8
//

package gobrdc

const (
	PI = 3.1415926535897932 // Pi
	C  = 2.99792458e8       // Speed of light [m/s]
	Re = 6378137.0          // Earth's radius [m]
	Fe = 1.0 / 298.257223563

	MuGPS = 3.986005e14    // WGS-84 gravitational constant for GPS users [m^3/s^2]
	MuGAL = 3.986004418e14 // Galileo gravitational constant [m^3/s^2]
	MuBDS = 3.986004418e14 // BDS (CGCS2000) gravitational constant [m^3/s^2]
	MuGLO = 3.9860044e14   // PZ-90 gravitational constant [m^3/s^2]

	OmegaEDot = 7.2921151467e-5 // WGS-84 earth rotation rate [rad/s]
	OmegaEBDS = 7.292115e-5     // CGCS2000 earth rotation rate [rad/s]
	OmegaEGLO = 7.292115e-5     // PZ-90 earth rotation rate [rad/s]

	J2GLO = 1.0826257e-3 // Second zonal harmonic of the PZ-90 geopotential
	ReGLO = 6378136.0    // PZ-90 equatorial radius [m]

	FClock = -4.442807633e-10 // Relativistic clock constant F [s/sqrt(m)]

	SecInWeek = 604800.0 // Seconds in a GPS week
	SecInDay  = 86400.0  // Seconds in a day
	HalfWeek  = 302400.0 // Half a GPS week in seconds

	MoscowShift = 10800.0 // UTC to Moscow time offset (3 hours) [s]
	BDTWeekOff  = 1356    // BDT week 0 = GPS week 1356
)
