// Package domain models NOAA Integrated Surface Database "Lite"
// (ISD-Lite) weather observations and station history metadata.
//
// # Data Source
//
// Observations come from the NOAA ISD-Lite archive, a fixed-width subset
// of the complete Integrated Surface Data. The archive stores one file
// per station per year; filenames follow "<USAF>-<WBAN>-<year>", e.g.
// "716230-99999-2010.gz" for USAF station 716230 (London), WBAN 99999,
// year 2010. Station metadata comes from the isd-history CSV published
// alongside the archive.
//
// # Observation Rows
//
// Each row is one hourly observation: year, month, day, hour followed by
// eight measurement fields. Fields are whitespace-separated integers.
// Scaled fields store the physical value multiplied by 10:
//
//	Air temperature        degrees Celsius, scaled by 10
//	Dew point temperature  degrees Celsius, scaled by 10
//	Sea level pressure     hectopascals, scaled by 10
//	Wind direction         angular degrees, unscaled (calm winds coded 0)
//	Wind speed             meters per second, scaled by 10
//	Sky condition          coverage code 0-19, unscaled
//	Precipitation (1 hr)   millimeters, scaled by 10 (trace coded -1)
//	Precipitation (6 hr)   millimeters, scaled by 10 (trace coded -1)
//
// # Missing Values
//
// The integer -9999 marks a field as not measured. It is mapped to a nil
// pointer at parse time and restored only when re-serializing; it must
// never be confused with a real measurement, since zero is valid (calm
// wind is wind speed 0).
//
// # Station History
//
// The isd-history CSV carries, per station: USAF and WBAN codes, name,
// FIPS country, US state, ICAO code, latitude and longitude in decimal
// degrees, elevation in meters, and the beginning and end of the period
// of record as YYYYMMDD dates. Name, country, state, ICAO, and all three
// spatial columns may be empty. The "USAF-WBAN" pair uniquely identifies
// a station and keys the catalog.
package domain
