package dto

import "errors"

// Custom errors
var (
	ErrMissingParameter = errors.New("missing file parameter")
	ErrUnreadableImage  = errors.New("can not read image")
)

// Plain-text bodies returned for the client errors above
const (
	MsgMissingParameter = "Missing file parameter"
	MsgUnreadableImage  = "Can not read image"
	MsgWelcome          = "Welcome ! The endpoint is at <b>/process</b>"
)

// PassportResponse is the final response structure
type PassportResponse struct {
	LastName    string `json:"last_name"`
	FirstName   string `json:"first_name"`
	CountryCode string `json:"country_code"`
	Country     string `json:"country"`
	Nationality string `json:"nationality"`
	Number      string `json:"number"`
	Sex         string `json:"sex"`
}
