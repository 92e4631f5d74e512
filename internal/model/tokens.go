package model

import "strings"

// nullTokens are the strings treated as an absent value rather than
// literal text. Matching is done on the trimmed, lowercased value.
var nullTokens = map[string]struct{}{
	"":     {},
	"n/a":  {},
	"null": {},
	"none": {},
	"-":    {},
	"na":   {},
	"nan":  {},
}

// trueTokens are the values coerced to boolean true; any other
// boolean-typed value coerces to false.
var trueTokens = map[string]struct{}{
	"true": {},
	"yes":  {},
	"1":    {},
	"t":    {},
	"y":    {},
}

// falseTokens complete the boolean vocabulary for type inference.
var falseTokens = map[string]struct{}{
	"false": {},
	"no":    {},
	"0":     {},
	"f":     {},
	"n":     {},
}

// IsNullToken reports whether the value represents an absent value.
func IsNullToken(s string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// IsTrueToken reports whether the value coerces to boolean true.
func IsTrueToken(s string) bool {
	_, ok := trueTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// IsBooleanToken reports whether the value belongs to the boolean
// vocabulary at all (true or false spelling).
func IsBooleanToken(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	if _, ok := trueTokens[v]; ok {
		return true
	}
	_, ok := falseTokens[v]
	return ok
}
