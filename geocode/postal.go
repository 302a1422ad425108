package geocode

import "regexp"

// postalPattern matches a standalone 5-digit run bounded by non-digits, so
// "20017" is a postal code but "123456" and "2001" are not.
var postalPattern = regexp.MustCompile(`(^|[^0-9])([0-9]{5})([^0-9]|$)`)

// ExtractPostalCode returns the first 5-digit postal code token in text.
func ExtractPostalCode(text string) (string, bool) {
	m := postalPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[2], true
}
