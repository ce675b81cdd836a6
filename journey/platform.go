package journey

import "strings"

// Roman numerals 1-20, longest first so "XIX" is rewritten before "X".
// Both providers still print platforms the station signage way.
var romanPlatforms = []struct{ roman, arabic string }{
	{"XVIII", "18"},
	{"XVII", "17"}, {"XIII", "13"}, {"VIII", "8"},
	{"XIX", "19"}, {"XVI", "16"}, {"XIV", "14"}, {"XII", "12"}, {"VII", "7"}, {"III", "3"},
	{"XX", "20"}, {"XV", "15"}, {"XI", "11"}, {"IX", "9"}, {"VI", "6"}, {"IV", "4"}, {"II", "2"},
	{"X", "10"}, {"V", "5"}, {"I", "1"},
}

func replaceRomans(s string) string {
	for _, p := range romanPlatforms {
		s = strings.ReplaceAll(s, p.roman, p.arabic)
	}
	return s
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizePlatform converts Roman platform numerals to Arabic and
// collapses the "<number> TR" composite form ("tronco", a dead-end track)
// to a trailing slash marker. Only the leading token is converted; "-"
// and plain numbers pass through unchanged.
func NormalizePlatform(platform string) string {
	parts := strings.Fields(platform)
	if len(parts) < 2 {
		if platform == "-" || isAllDigits(platform) {
			return platform
		}
		return replaceRomans(platform)
	}
	first := replaceRomans(parts[0])
	if parts[1] == "TR" {
		return first + " /"
	}
	return first + " " + parts[1]
}
