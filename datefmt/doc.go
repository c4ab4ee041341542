// Package datefmt renders timestamps as text using date patterns such as
// "yyyy-MM-dd HH:mm:ss".
//
// Pattern letters follow the CLDR date field symbols:
//
//	G  era                  y  year          Y  ISO week-based year
//	M  month                L  month (standalone)
//	w  ISO week of year     W  week of month F  weekday occurrence in month
//	D  day of year          d  day of month  E  weekday name
//	u  ISO weekday (1=Mon)  a  AM/PM marker
//	H  hour 0-23            k  hour 1-24
//	K  hour 0-11            h  hour 1-12
//	m  minute               s  second        S  milliseconds
//	z  zone name            Z  offset -0700  X  ISO offset (Z for UTC)
//
// Repeating a letter sets the width; three or more M, L or E letters select
// names from the locale, as do G and a. X takes one to three letters (-07,
// -0700, -07:00). Text inside single quotes is copied as is and '' is a
// literal quote. Any other ASCII letter outside quotes is an error.
//
// A Formatter holds its clock and locale explicitly. The package-level
// functions build a fresh Formatter per call from the process clock and the
// locale named by LC_ALL, LC_TIME or LANG.
package datefmt
