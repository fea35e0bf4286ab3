package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var filenameStripRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces a client supplied filename to a flat ASCII name
// that is safe to join onto a storage directory. It returns "" when nothing
// usable is left.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range name {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	name = strings.ReplaceAll(b.String(), "/", " ")
	name = strings.Join(strings.Fields(name), "_")
	name = filenameStripRe.ReplaceAllString(name, "")

	return strings.Trim(name, "._")
}

// StorageFilename returns SecureFilename(name), or a random UUID when
// nothing of the client name survives sanitizing.
func StorageFilename(name string) string {
	if safe := SecureFilename(name); safe != "" {
		return safe
	}
	return uuid.NewString()
}

// OutputStem derives the per-file working directory name: the base name up
// to its first dot, then only its first whitespace separated token.
func OutputStem(path string) (string, error) {
	base := filepath.Base(path)
	stem := strings.SplitN(base, ".", 2)[0]
	fields := strings.Fields(stem)
	if len(fields) == 0 {
		return "", fmt.Errorf("no usable stem in filename %q", base)
	}
	return fields[0], nil
}
