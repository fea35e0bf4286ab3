package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aashish23092/passport-reader/dto"
	"github.com/Aashish23092/passport-reader/logger"
	"github.com/Aashish23092/passport-reader/utils"
	"github.com/disintegration/imaging"
)

type MRZReader interface {
	ReadMRZ(ctx context.Context, imagePath string) (*dto.MRZResult, error)
}

type PageOCR interface {
	ImageToString(ctx context.Context, imagePath string) (string, error)
}

type CountryResolver interface {
	Resolve(code string) (string, error)
}

// PassportService turns a stored upload into a PassportResponse.
type PassportService struct {
	mrz       MRZReader
	ocr       PageOCR
	countries CountryResolver
	pdf       PDFProcessor
	log       *logger.Logger
}

func NewPassportService(mrz MRZReader, ocr PageOCR, countries CountryResolver, pdf PDFProcessor, log *logger.Logger) *PassportService {
	return &PassportService{
		mrz:       mrz,
		ocr:       ocr,
		countries: countries,
		pdf:       pdf,
		log:       log.WithComponent("passport"),
	}
}

// Process reads the MRZ, OCRs the page, reconciles names against the OCR
// text and resolves country names. A missing MRZ yields dto.ErrUnreadableImage.
func (s *PassportService) Process(ctx context.Context, uploadPath string) (*dto.PassportResponse, error) {
	log := logger.FromContext(ctx, s.log)

	imagePath, pdfText, cleanup, err := s.pageImage(uploadPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	mrz, err := s.mrz.ReadMRZ(ctx, imagePath)
	if err != nil {
		return nil, fmt.Errorf("MRZ extraction failed: %w", err)
	}
	if mrz == nil {
		return nil, dto.ErrUnreadableImage
	}
	log.Info().
		Int("valid_score", mrz.ValidScore).
		Str("format", string(mrz.Format)).
		Msg("MRZ extracted")

	lastName := strings.ToUpper(mrz.Surname)
	firstName := strings.ToUpper(mrz.GivenNames)

	fullText, err := s.ocr.ImageToString(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	if pdfText != "" {
		fullText += "\n" + strings.ToUpper(pdfText)
	}

	lastName = utils.ReconcileLastName(lastName, fullText)
	firstName = utils.ReconcileFirstName(firstName, fullText)

	country, err := s.countries.Resolve(mrz.CountryCode)
	if err != nil {
		return nil, fmt.Errorf("country lookup failed: %w", err)
	}
	nationality, err := s.countries.Resolve(mrz.NationalityCode)
	if err != nil {
		return nil, fmt.Errorf("nationality lookup failed: %w", err)
	}

	return &dto.PassportResponse{
		LastName:    lastName,
		FirstName:   firstName,
		CountryCode: mrz.CountryCode,
		Country:     country,
		Nationality: nationality,
		Number:      mrz.DocumentNumber,
		Sex:         mrz.Sex,
	}, nil
}

// pageImage returns the path of the image to read. For a PDF upload the
// first page image is written next to the upload and the text layer is
// returned alongside; cleanup removes whatever was written.
func (s *PassportService) pageImage(uploadPath string) (string, string, func(), error) {
	noop := func() {}

	if s.pdf == nil {
		return uploadPath, "", noop, nil
	}
	isPDF, err := s.pdf.IsPDF(uploadPath)
	if err != nil {
		return "", "", noop, fmt.Errorf("failed to inspect upload: %w", err)
	}
	if !isPDF {
		return uploadPath, "", noop, nil
	}

	img, err := s.pdf.FirstPageImage(uploadPath)
	if err != nil {
		if errors.Is(err, ErrNoPageImage) {
			return "", "", noop, dto.ErrUnreadableImage
		}
		return "", "", noop, fmt.Errorf("failed to extract PDF page: %w", err)
	}

	stem, err := utils.OutputStem(uploadPath)
	if err != nil {
		return "", "", noop, err
	}
	pagePath := filepath.Join(filepath.Dir(uploadPath), stem+"_page.png")
	if err := imaging.Save(img, pagePath); err != nil {
		return "", "", noop, fmt.Errorf("failed to save PDF page: %w", err)
	}
	cleanup := func() {
		if err := os.Remove(pagePath); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", pagePath).Msg("failed to remove PDF page image")
		}
	}

	text, err := s.pdf.ExtractText(uploadPath)
	if err != nil {
		// scans often have no parseable text layer
		s.log.Debug().Err(err).Msg("no PDF text layer")
		text = ""
	}
	return pagePath, text, cleanup, nil
}
