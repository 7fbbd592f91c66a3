package draw

import "strings"

// Unrecognized is emitted when a hunt code does not match any known pattern.
// It surfaces code drift instead of hiding it behind a default.
const Unrecognized = "unrecognized"

var animalSexByPrefix = []struct {
	prefix string
	value  string
}{
	{"EE", "Either Sex"},
	{"EM", "Male"},
	{"EF", "Female"},
	{"EP", "Preference Point"},
}

var methodOfTakeBySuffix = map[byte]string{
	'A': "Archery",
	'M': "muzzleloader",
	'R': "rifle",
	'X': "season choice",
	'P': "NA",
}

// DeriveAnimalSex maps the first two characters of a hunt code to a sex category
func DeriveAnimalSex(huntCode string) string {
	for _, m := range animalSexByPrefix {
		if strings.HasPrefix(huntCode, m.prefix) {
			return m.value
		}
	}
	return Unrecognized
}

// DeriveMethodOfTake maps the last character of a hunt code to a method of take
func DeriveMethodOfTake(huntCode string) string {
	if huntCode == "" {
		return Unrecognized
	}
	if v, ok := methodOfTakeBySuffix[huntCode[len(huntCode)-1]]; ok {
		return v
	}
	return Unrecognized
}

// DeriveGMU returns the game management unit, characters 2 through 4 of the code
func DeriveGMU(huntCode string) string {
	const start, end = 2, 5
	if len(huntCode) <= start {
		return ""
	}
	if len(huntCode) < end {
		return huntCode[start:]
	}
	return huntCode[start:end]
}
