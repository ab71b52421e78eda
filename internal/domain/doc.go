// Package domain models monthly weather/station observations used for flood
// risk prediction.
//
// # Data Source
//
// The training corpus is a CSV of monthly station records from the Bangladesh
// Meteorological Department network. Each row describes one station for one
// month, with an optional leading serial column ("Sl") and a binary "Flood?"
// outcome column.
//
// # Column Conventions
//
// Feature columns, in the order the model consumes them:
//
//	Station_Names      station name, e.g. "Barisal" (categorical)
//	Year, Month        observation period
//	Max_Temp, Min_Temp monthly temperature extremes in °C
//	Rainfall           monthly rainfall in mm
//	Relative_Humidity  percent
//	Wind_Speed         m/s
//	Cloud_Coverage     okta
//	Bright_Sunshine    hours per day
//	Station_Number     WMO station number, e.g. 41950
//	X_COR, Y_COR       planar projected coordinates
//	LATITUDE           decimal degrees
//	LONGITUDE          decimal degrees
//	ALT                station altitude in metres
//	Period             year + month/100, e.g. 2025.07 for July 2025
//
// The station name is label-encoded against the training vocabulary, so a
// prediction for a station that never appeared in the corpus is rejected with
// ErrUnknownCategory rather than mapped to some other station.
//
// # Output
//
// A RiskAssessment carries the hard label (0 or 1), the class-1 probability
// rounded to 4 decimal places, and the display form used by every caller:
// "Yes"/"No" plus the probability as a percentage rounded to 2 decimal places.
package domain
