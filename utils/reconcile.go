package utils

import (
	"strings"
	"unicode"
)

// ReconcileLastName replaces the MRZ surname with the full OCR line that
// contains it. Every line is scanned and the last matching line wins.
func ReconcileLastName(lastName, fullText string) string {
	if lastName == "" || !strings.Contains(fullText, lastName) {
		return lastName
	}

	result := lastName
	for _, line := range strings.Split(fullText, "\n") {
		if strings.Contains(line, lastName) {
			result = line
		}
	}
	return result
}

// ReconcileFirstName looks up the first given name token in the OCR text and
// returns the cleaned last line containing it. The MRZ value is returned
// unchanged when there is no match.
func ReconcileFirstName(firstName, fullText string) string {
	token := strings.Split(firstName, " ")[0]
	if token == "" || !strings.Contains(fullText, token) {
		return firstName
	}

	result := firstName
	for _, line := range strings.Split(fullText, "\n") {
		if strings.Contains(line, token) {
			result = CleanName(line)
		}
	}
	return result
}

// CleanName drops everything except letters, digits and whitespace, then
// trims surrounding whitespace.
func CleanName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, name)
	return strings.TrimSpace(cleaned)
}
