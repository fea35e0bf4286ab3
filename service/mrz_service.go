package service

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/Aashish23092/passport-reader/dto"
	"github.com/Aashish23092/passport-reader/logger"
	"github.com/Aashish23092/passport-reader/utils"
	"github.com/disintegration/imaging"
)

// MRZ OCR works best on wide crops
const mrzMinWidth = 1200

// MRZTextExtractor reads MRZ-alphabet text from an encoded image.
type MRZTextExtractor interface {
	ExtractMRZText(ctx context.Context, image []byte) (string, error)
}

// MRZService finds and parses the machine readable zone of a document image.
type MRZService struct {
	engine    MRZTextExtractor
	bandRatio float64
	log       *logger.Logger
}

func NewMRZService(engine MRZTextExtractor, bandRatio float64, log *logger.Logger) *MRZService {
	return &MRZService{
		engine:    engine,
		bandRatio: bandRatio,
		log:       log.WithComponent("mrz"),
	}
}

// ReadMRZ returns the parsed zone, or nil with a nil error when none is found.
// The bottom band of the page is tried first, then the whole page.
func (s *MRZService) ReadMRZ(ctx context.Context, imagePath string) (*dto.MRZResult, error) {
	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	for _, region := range s.regions(img) {
		data, err := encodeMRZRegion(region)
		if err != nil {
			return nil, err
		}

		text, err := s.engine.ExtractMRZText(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("MRZ OCR failed: %w", err)
		}

		if res := utils.FindMRZ(text); res != nil {
			s.log.Info().
				Str("format", string(res.Format)).
				Int("valid_score", res.ValidScore).
				Msg("MRZ found")
			return res, nil
		}
	}

	s.log.Info().Str("path", imagePath).Msg("no MRZ found")
	return nil, nil
}

func (s *MRZService) regions(img image.Image) []image.Image {
	b := img.Bounds()
	if s.bandRatio >= 1 {
		return []image.Image{img}
	}
	top := b.Max.Y - int(float64(b.Dy())*s.bandRatio)
	band := imaging.Crop(img, image.Rect(b.Min.X, top, b.Max.X, b.Max.Y))
	return []image.Image{band, img}
}

// encodeMRZRegion grayscales, widens and binarizes a region and returns it
// as PNG bytes.
func encodeMRZRegion(region image.Image) ([]byte, error) {
	out := imaging.Grayscale(region)
	if out.Bounds().Dx() < mrzMinWidth {
		out = imaging.Resize(out, mrzMinWidth, 0, imaging.CatmullRom)
	}
	out = Binarize(out)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode MRZ region: %w", err)
	}
	return buf.Bytes(), nil
}
