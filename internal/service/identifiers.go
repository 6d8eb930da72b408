package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	patientNumberPrefix     = "P"
	billNumberPrefix        = "B"
	appointmentNumberPrefix = "A"

	maxUsernameBase = 40
)

var (
	usernameStrip = regexp.MustCompile(`[^a-z0-9]+`)
	roomNumberRe  = regexp.MustCompile(`\d+`)
)

// nextSequenceNumber returns prefix-##### one past the highest number already issued.
// Malformed entries are ignored.
func nextSequenceNumber(prefix string, existing []string) string {
	highest := 0
	for _, number := range existing {
		rest, ok := strings.CutPrefix(number, prefix+"-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s-%05d", prefix, highest+1)
}

// usernameBase slugs given and last name into "given.last"
func usernameBase(givenName, lastName string) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{givenName, lastName} {
		if slug := usernameStrip.ReplaceAllString(strings.ToLower(s), ""); slug != "" {
			parts = append(parts, slug)
		}
	}
	if len(parts) == 0 {
		return "user"
	}
	base := strings.Join(parts, ".")
	if len(base) > maxUsernameBase {
		base = base[:maxUsernameBase]
	}
	return base
}

// uniqueUsername appends 2, 3, ... to base until it no longer collides with taken
func uniqueUsername(base string, taken []string) string {
	used := make(map[string]bool, len(taken))
	for _, name := range taken {
		used[strings.ToLower(name)] = true
	}
	if !used[base] {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !used[candidate] {
			return candidate
		}
	}
}

// parseRoomNumber pulls the first number out of a display string like "Room 101 - ICU"
func parseRoomNumber(display string) (int, bool) {
	match := roomNumberRe.FindString(display)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}
