package transform

// julianDayToCalendar converts an integer Julian day number to a
// proleptic-Gregorian (year, month, day) triple.
//
// The decomposition is pure integer arithmetic, so calendar components carry
// no rounding error anywhere in the supported range, and there is no
// calendar-reform special-casing.
func julianDayToCalendar(jd int32) (year, month, day int) {
	julian := uint32(jd) + 32044
	quad := julian / 146097
	extra := (julian-quad*146097)*4 + 3

	julian += 60 + quad*3 + extra/146097
	quad = julian / 1461
	julian -= quad * 1461

	y := int32(julian * 4 / 1461)
	if y != 0 {
		julian = (julian + 305) % 365
	} else {
		julian = (julian + 306) % 366
	}
	julian += 123
	y += int32(quad * 4)
	year = int(y - 4800)

	quad = julian * 2141 / 65536
	day = int(julian - 7834*quad/256)
	month = int((quad+10)%12 + 1)

	return year, month, day
}
