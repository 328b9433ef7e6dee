package collection

import (
	"time"

	"github.com/pkg/errors"
)

// ParsePublishedDate accepts "YYYY", "YYYY-MM" or "YYYY-MM-DD".
// Missing month or day default to January and the 1st.
func ParsePublishedDate(s string) (time.Time, error) {
	layout := time.DateOnly
	switch len(s) {
	case 0:
		return time.Time{}, errors.New("empty date")
	case 4:
		layout = "2006"
	case 7:
		layout = "2006-01"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "published date %q", s)
	}
	return t, nil
}
