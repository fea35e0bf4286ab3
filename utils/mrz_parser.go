package utils

import (
	"math"
	"strings"

	"github.com/Aashish23092/passport-reader/dto"
)

// MRZAlphabet is the character set allowed in a machine readable zone.
const MRZAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789<"

// ICAO 9303 line lengths
const (
	td1LineLen = 30
	td2LineLen = 36
	td3LineLen = 44

	lineLenTolerance = 2
)

var (
	// OCR confusions in positions that must hold digits
	toDigit = strings.NewReplacer("O", "0", "Q", "0", "D", "0", "I", "1", "L", "1", "Z", "2", "S", "5", "G", "6", "B", "8")
	// and in positions that must hold letters
	toLetter = strings.NewReplacer("0", "O", "1", "I", "2", "Z", "5", "S", "8", "B")
)

// FindMRZ locates the machine readable zone in OCR output and parses it.
// It returns nil when no block of MRZ-looking lines matches a known format.
func FindMRZ(text string) *dto.MRZResult {
	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		line = normalizeMRZLine(line)
		if looksLikeMRZ(line) {
			candidates = append(candidates, line)
		}
	}

	// The zone sits at the bottom of the page, so search from the end.
	for end := len(candidates); end >= 2; end-- {
		if end >= 3 {
			block := candidates[end-3 : end]
			if allNear(block, td1LineLen) {
				if res := ParseMRZ(block); res != nil {
					return res
				}
			}
		}
		block := candidates[end-2 : end]
		if allNear(block, td3LineLen) || allNear(block, td2LineLen) {
			if res := ParseMRZ(block); res != nil {
				return res
			}
		}
	}
	return nil
}

// ParseMRZ parses two (TD2/TD3) or three (TD1) MRZ lines.
func ParseMRZ(lines []string) *dto.MRZResult {
	for i := range lines {
		lines[i] = normalizeMRZLine(lines[i])
	}

	switch {
	case len(lines) == 3 && allNear(lines, td1LineLen):
		return parseTD1(lines)
	case len(lines) == 2 && allNear(lines, td3LineLen):
		return parseTD3(lines)
	case len(lines) == 2 && allNear(lines, td2LineLen):
		return parseTD2(lines)
	}
	return nil
}

// parseTD3 parses a passport MRZ
// Line 1: P<UTOSURNAME<<GIVEN<NAMES<<<<<<<<<<<<<<<<<<<
// Line 2: NUMBER<<<C NAT DOB C S EXPIRY C PERSONAL<<<<<C C
func parseTD3(lines []string) *dto.MRZResult {
	l1 := padLine(lines[0], td3LineLen)
	l2 := padLine(lines[1], td3LineLen)

	surname, names := splitNames(l1[5:])
	number := l2[0:9]
	dob := toDigit.Replace(l2[13:19])
	expiry := toDigit.Replace(l2[21:27])
	personal := l2[28:42]

	checks := []bool{
		checkDigitMatches(number, l2[9]),
		checkDigitMatches(dob, l2[19]),
		checkDigitMatches(expiry, l2[27]),
		personalNumberValid(personal, l2[42]),
		checkDigitMatches(number+string(l2[9])+dob+string(l2[19])+expiry+string(l2[27])+personal+string(l2[42]), l2[43]),
		lineLenValid(lines[0], td3LineLen),
		lineLenValid(lines[1], td3LineLen),
		isDigits(dob) && isDigits(expiry),
		validSex(l2[20]),
	}

	return &dto.MRZResult{
		Format:          dto.FormatTD3,
		DocumentType:    cleanMRZ(l1[0:2]),
		CountryCode:     cleanMRZ(toLetter.Replace(l1[2:5])),
		Surname:         surname,
		GivenNames:      names,
		DocumentNumber:  cleanMRZ(number),
		NationalityCode: cleanMRZ(toLetter.Replace(l2[10:13])),
		DateOfBirth:     dob,
		Sex:             string(l2[20]),
		ExpirationDate:  expiry,
		ValidScore:      score(checks),
		RawLines:        []string{l1, l2},
	}
}

// parseTD2 parses a 2x36 travel document MRZ
func parseTD2(lines []string) *dto.MRZResult {
	l1 := padLine(lines[0], td2LineLen)
	l2 := padLine(lines[1], td2LineLen)

	surname, names := splitNames(l1[5:])
	number := l2[0:9]
	dob := toDigit.Replace(l2[13:19])
	expiry := toDigit.Replace(l2[21:27])
	optional := l2[28:35]

	checks := []bool{
		checkDigitMatches(number, l2[9]),
		checkDigitMatches(dob, l2[19]),
		checkDigitMatches(expiry, l2[27]),
		checkDigitMatches(number+string(l2[9])+dob+string(l2[19])+expiry+string(l2[27])+optional, l2[35]),
		lineLenValid(lines[0], td2LineLen),
		lineLenValid(lines[1], td2LineLen),
		isDigits(dob) && isDigits(expiry),
		validSex(l2[20]),
	}

	return &dto.MRZResult{
		Format:          dto.FormatTD2,
		DocumentType:    cleanMRZ(l1[0:2]),
		CountryCode:     cleanMRZ(toLetter.Replace(l1[2:5])),
		Surname:         surname,
		GivenNames:      names,
		DocumentNumber:  cleanMRZ(number),
		NationalityCode: cleanMRZ(toLetter.Replace(l2[10:13])),
		DateOfBirth:     dob,
		Sex:             string(l2[20]),
		ExpirationDate:  expiry,
		ValidScore:      score(checks),
		RawLines:        []string{l1, l2},
	}
}

// parseTD1 parses an ID card MRZ
// Line 1: I<UTONUMBER<<<COPTIONAL<<<<<<<<
// Line 2: DOB C S EXPIRY C NAT OPTIONAL<<<C
// Line 3: SURNAME<<GIVEN<NAMES<<<<<<<<<<<
func parseTD1(lines []string) *dto.MRZResult {
	l1 := padLine(lines[0], td1LineLen)
	l2 := padLine(lines[1], td1LineLen)
	l3 := padLine(lines[2], td1LineLen)

	number := l1[5:14]
	dob := toDigit.Replace(l2[0:6])
	expiry := toDigit.Replace(l2[8:14])
	surname, names := splitNames(l3)

	composite := l1[5:30] + dob + string(l2[6]) + expiry + string(l2[14]) + l2[18:29]
	checks := []bool{
		checkDigitMatches(number, l1[14]),
		checkDigitMatches(dob, l2[6]),
		checkDigitMatches(expiry, l2[14]),
		checkDigitMatches(composite, l2[29]),
		lineLenValid(lines[0], td1LineLen),
		lineLenValid(lines[1], td1LineLen),
		lineLenValid(lines[2], td1LineLen),
		isDigits(dob) && isDigits(expiry),
		validSex(l2[7]),
	}

	return &dto.MRZResult{
		Format:          dto.FormatTD1,
		DocumentType:    cleanMRZ(l1[0:2]),
		CountryCode:     cleanMRZ(toLetter.Replace(l1[2:5])),
		Surname:         surname,
		GivenNames:      names,
		DocumentNumber:  cleanMRZ(number),
		NationalityCode: cleanMRZ(toLetter.Replace(l2[15:18])),
		DateOfBirth:     dob,
		Sex:             string(l2[7]),
		ExpirationDate:  expiry,
		ValidScore:      score(checks),
		RawLines:        []string{l1, l2, l3},
	}
}

// CheckDigit computes the ICAO 9303 check digit (weights 7, 3, 1).
func CheckDigit(field string) int {
	weights := [3]int{7, 3, 1}
	sum := 0
	for i := 0; i < len(field); i++ {
		sum += charValue(field[i]) * weights[i%3]
	}
	return sum % 10
}

func charValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 0
	}
}

func checkDigitMatches(field string, check byte) bool {
	check = toDigit.Replace(string(check))[0]
	if check == '<' {
		check = '0'
	}
	if check < '0' || check > '9' {
		return false
	}
	return CheckDigit(field) == int(check-'0')
}

// An unused personal number may carry '<' as its check digit.
func personalNumberValid(personal string, check byte) bool {
	if check == '<' && strings.Trim(personal, "<") == "" {
		return true
	}
	return checkDigitMatches(personal, check)
}

func splitNames(section string) (string, string) {
	section = toLetter.Replace(section)
	parts := strings.SplitN(section, "<<", 2)
	surname := cleanMRZName(parts[0])
	names := ""
	if len(parts) == 2 {
		names = cleanMRZName(parts[1])
	}
	return surname, names
}

func score(checks []bool) int {
	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}
	return int(math.Round(100 * float64(passed) / float64(len(checks))))
}

func normalizeMRZLine(line string) string {
	line = strings.ToUpper(strings.TrimSpace(line))
	line = strings.ReplaceAll(line, " ", "")
	return strings.ReplaceAll(line, "«", "<")
}

func looksLikeMRZ(line string) bool {
	if len(line) < td1LineLen-lineLenTolerance {
		return false
	}
	valid := 0
	for i := 0; i < len(line); i++ {
		if strings.IndexByte(MRZAlphabet, line[i]) >= 0 {
			valid++
		}
	}
	return float64(valid)/float64(len(line)) > 0.85
}

func allNear(lines []string, length int) bool {
	for _, l := range lines {
		if len(l) < length-lineLenTolerance || len(l) > length+lineLenTolerance {
			return false
		}
	}
	return true
}

func lineLenValid(line string, length int) bool {
	return len(line) == length
}

func padLine(line string, length int) string {
	if len(line) >= length {
		return line[:length]
	}
	return line + strings.Repeat("<", length-len(line))
}

func cleanMRZ(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "<", ""))
}

func cleanMRZName(s string) string {
	cleaned := strings.TrimRight(s, "< ")
	cleaned = strings.ReplaceAll(cleaned, "<", " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func validSex(c byte) bool {
	return c == 'M' || c == 'F' || c == '<' || c == 'X'
}
