package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Aashish23092/passport-reader/logger"
)

// TextExtractor recognizes full page text in an image file.
type TextExtractor interface {
	ExtractText(ctx context.Context, filePath string) (string, error)
}

// OCRService filters an image, OCRs the filtered copy and removes it.
type OCRService struct {
	preprocessor *Preprocessor
	engine       TextExtractor
	log          *logger.Logger
}

func NewOCRService(preprocessor *Preprocessor, engine TextExtractor, log *logger.Logger) *OCRService {
	return &OCRService{
		preprocessor: preprocessor,
		engine:       engine,
		log:          log.WithComponent("ocr"),
	}
}

// ImageToString returns the upper-cased text recognized on the filtered
// version of imagePath.
func (s *OCRService) ImageToString(ctx context.Context, imagePath string) (string, error) {
	filteredPath, err := s.preprocessor.WriteFiltered(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to preprocess image: %w", err)
	}
	defer func() {
		if err := os.Remove(filteredPath); err != nil {
			s.log.Warn().Err(err).Str("path", filteredPath).Msg("failed to remove filtered image")
		}
	}()

	text, err := s.engine.ExtractText(ctx, filteredPath)
	if err != nil {
		return "", fmt.Errorf("OCR extraction failed: %w", err)
	}

	s.log.Debug().Int("chars", len(text)).Msg("page OCR done")
	return strings.ToUpper(text), nil
}
