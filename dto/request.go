package dto

import (
	"mime/multipart"
)

// ProcessRequest represents the incoming POST /process form
type ProcessRequest struct {
	ImageFile *multipart.FileHeader `form:"imagefile" binding:"required"`
}

// Validate performs basic validation on the request. A part without a
// filename counts as missing.
func (r *ProcessRequest) Validate() error {
	if r.ImageFile == nil || r.ImageFile.Filename == "" {
		return ErrMissingParameter
	}
	return nil
}
