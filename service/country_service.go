package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Aashish23092/passport-reader/dto"
)

// CountryService resolves ISO 3166 alpha-3 codes against a JSON reference
// table. The table is read on every lookup.
type CountryService struct {
	path string
}

func NewCountryService(path string) *CountryService {
	return &CountryService{path: path}
}

// Lookup returns the display name for code and whether it was found.
func (s *CountryService) Lookup(code string) (string, bool, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return "", false, fmt.Errorf("failed to open country table: %w", err)
	}
	defer f.Close()

	var countries []dto.Country
	if err := json.NewDecoder(f).Decode(&countries); err != nil {
		return "", false, fmt.Errorf("failed to parse country table: %w", err)
	}

	for _, c := range countries {
		if c.Alpha3 == code {
			return c.Name, true, nil
		}
	}
	return "", false, nil
}

// Resolve returns the country name for code, or code itself when the table
// has no such entry.
func (s *CountryService) Resolve(code string) (string, error) {
	name, found, err := s.Lookup(code)
	if err != nil {
		return "", err
	}
	if !found {
		return code, nil
	}
	return name, nil
}
