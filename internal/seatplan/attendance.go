package seatplan

import "time"

// Weekday keys as stored in a person's attendance set.
const (
	Sunday    = "So"
	Monday    = "Mo"
	Tuesday   = "Di"
	Wednesday = "Mi"
	Thursday  = "Do"
	Friday    = "Fr"
	Saturday  = "Sa"
)

// dayKeys is indexed by time.Weekday (Sunday = 0).
var dayKeys = [7]string{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// Workdays are the weekday keys a person can attend, Monday first.
var Workdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday}

// DefaultDays is the attendance pattern given to newly created people.
var DefaultDays = []string{Monday, Wednesday, Friday}

// DayKey maps a date to its weekday key.
func DayKey(date time.Time) string {
	return dayKeys[date.Weekday()]
}

// IsWorkday reports whether key is one of the five attendable weekday keys.
func IsWorkday(key string) bool {
	for _, k := range Workdays {
		if k == key {
			return true
		}
	}
	return false
}

// IsPresent reports whether the person is expected on the date. A person
// without attendance days is never present.
func IsPresent(p Person, date time.Time) bool {
	return attends(p, DayKey(date))
}

func attends(p Person, dayKey string) bool {
	for _, d := range p.Days {
		if d == dayKey {
			return true
		}
	}
	return false
}

// PresentPeople filters people to those present on the date, keeping order.
func PresentPeople(people []Person, date time.Time) []Person {
	key := DayKey(date)
	var out []Person
	for _, p := range people {
		if attends(p, key) {
			out = append(out, p)
		}
	}
	return out
}
