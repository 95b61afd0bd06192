package date

import "time"

// Diff returns the calendar difference between from and to as whole years,
// whole months and remaining days, the way a wall calendar counts them.
//
// Adding months clamps to the last day of the target month, so Jan 31 plus one
// month is Feb 28 (or 29). If to is before from, all components are negative.
func Diff(from, to Date) (years, months, days int) {
	if to.Before(from) {
		y, m, d := Diff(to, from)
		return -y, -m, -d
	}
	total := (to.y-from.y)*12 + int(to.m-from.m)
	anchor := from.addMonths(total)
	if anchor.After(to) {
		total--
		anchor = from.addMonths(total)
	}
	return total / 12, total % 12, anchor.DaysUntil(to)
}

// addMonths adds n months, clamping the day to the end of the target month.
func (d Date) addMonths(n int) Date {
	first := New(d.y, d.m+time.Month(n), 1)
	day := d.d
	if last := daysIn(first.y, first.m); day > last {
		day = last
	}
	return Date{first.y, first.m, day}
}

// daysIn returns the number of days of month m in year y.
func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
