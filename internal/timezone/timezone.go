package timezone

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidTimezone = errors.New("invalid timezone name")

// Location resolves an IANA zone name. Unknown or empty names are an error
// rather than a silent fallback: weekday boundaries depend on the zone, so a
// wrong guess corrupts every availability computation downstream.
func Location(tz string) (*time.Location, error) {
	if strings.TrimSpace(tz) == "" {
		return nil, ErrInvalidTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

func IsValid(tz string) bool {
	_, err := Location(tz)
	return err == nil
}
