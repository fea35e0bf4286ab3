package dto

type MRZFormat string

const (
	FormatTD1 MRZFormat = "TD1"
	FormatTD2 MRZFormat = "TD2"
	FormatTD3 MRZFormat = "TD3"
)

// MRZResult is the structured content of a machine readable zone.
// Only the identity fields reach the response; the rest is kept for logging.
type MRZResult struct {
	Format          MRZFormat `json:"format"`
	DocumentType    string    `json:"document_type"`
	CountryCode     string    `json:"country"`
	Surname         string    `json:"surname"`
	GivenNames      string    `json:"names"`
	DocumentNumber  string    `json:"number"`
	NationalityCode string    `json:"nationality"`
	DateOfBirth     string    `json:"date_of_birth"`
	Sex             string    `json:"sex"`
	ExpirationDate  string    `json:"expiration_date"`
	ValidScore      int       `json:"valid_score"`
	RawLines        []string  `json:"raw_lines"`
}

// Country is one record of the country reference table
type Country struct {
	Name        string `json:"name"`
	Alpha2      string `json:"alpha-2"`
	Alpha3      string `json:"alpha-3"`
	CountryCode string `json:"country-code"`
}
