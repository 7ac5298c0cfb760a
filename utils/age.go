package utils

import "time"

// AgeFromDOB derives an age in years from a YYYY-MM-DD date of birth.
// Returns 0 when the date is missing or unparseable; age is never stored.
func AgeFromDOB(dob string) int {
	if dob == "" {
		return 0
	}
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0
	}
	now := time.Now().UTC()
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// SharedInterests counts the interest tags present in both lists.
func SharedInterests(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, tag := range a {
		set[tag] = struct{}{}
	}
	count := 0
	for _, tag := range b {
		if _, ok := set[tag]; ok {
			count++
		}
	}
	return count
}
