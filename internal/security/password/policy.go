package password

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// MinLen and MaxLen bound accepted passwords, counted in runes after trimming.
const (
	MinLen = 8
	MaxLen = 128
)

var (
	ErrTooShort = errors.New("password too short")
	ErrTooLong  = errors.New("password too long")
)

// Warning accompanies a password that was accepted but scored below 3.
type Warning struct {
	Score       int      `json:"score"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

var warnings = [...]Warning{
	{0, "Very weak password.", []string{"Use 12+ characters mixing upper and lower case, digits and symbols."}},
	{1, "Too short or predictable.", []string{"Use at least 10-12 characters of mixed types."}},
	{2, "Short or low variety.", []string{"Add length and mix letters, digits and symbols."}},
}

// Validate trims pwd and rejects it only when its length is out of bounds.
// personal holds account details (username, email) that weaken a password
// containing them.
func Validate(pwd string, personal ...string) (string, *Warning, error) {
	pwd = strings.TrimSpace(pwd)
	switch n := utf8.RuneCountInString(pwd); {
	case n < MinLen:
		return pwd, nil, ErrTooShort
	case n > MaxLen:
		return pwd, nil, ErrTooLong
	}
	if s := Score(pwd, personal...); s < len(warnings) {
		w := warnings[s]
		return pwd, &w, nil
	}
	return pwd, nil, nil
}

// Score rates pwd from 0 to 4 by length and character variety.
func Score(pwd string, personal ...string) int {
	variety := classes(pwd)
	if variety > 1 && containsPersonal(pwd, personal) {
		variety--
	}
	switch n := utf8.RuneCountInString(pwd); {
	case n >= 14 && variety >= 3:
		return 4
	case n >= 12 && variety >= 3:
		return 3
	case n >= 10 && variety >= 2:
		return 2
	case n >= MinLen:
		return 1
	}
	return 0
}

func classes(pwd string) int {
	var lower, upper, digit, other bool
	for _, r := range pwd {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}
	n := 0
	for _, ok := range [...]bool{lower, upper, digit, other} {
		if ok {
			n++
		}
	}
	return n
}

// containsPersonal matches usernames and email local parts of 3+ characters.
func containsPersonal(pwd string, personal []string) bool {
	pwd = strings.ToLower(pwd)
	for _, p := range personal {
		p = strings.ToLower(strings.TrimSpace(p))
		if local, _, ok := strings.Cut(p, "@"); ok {
			p = local
		}
		if utf8.RuneCountInString(p) >= 3 && strings.Contains(pwd, p) {
			return true
		}
	}
	return false
}
