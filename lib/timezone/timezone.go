package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Denver")
	if err != nil {
		panic(err)
	}
}

// force the timezone to be Montana's because the machines running
// the pipeline may end up in other regions, which skews any logic
// based on <time.Time>.Year()/Month()/Day() (e.g. "is this hearing
// today or later?")
func Now() time.Time {
	return time.Now().In(Location)
}

// StartOfDay truncates a time to midnight in the legislature's timezone.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}
