package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfMagic = []byte("%PDF-")

// ErrNoPageImage is returned when the first page of a PDF embeds no
// decodable raster image.
var ErrNoPageImage = errors.New("no image found on first PDF page")

type PDFProcessor interface {
	IsPDF(path string) (bool, error)
	ExtractText(path string) (string, error)
	FirstPageImage(path string) (image.Image, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// IsPDF sniffs the file header rather than trusting the upload name.
func (p *pdfProcessor) IsPDF(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(head, pdfMagic), nil
}

// ExtractText returns the text layer of every page, one line per text row.
// Scanned documents usually have none.
func (p *pdfProcessor) ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

// FirstPageImage extracts the images embedded in page 1 and returns the
// largest one, which for a scanned passport is the scan itself.
func (p *pdfProcessor) FirstPageImage(path string) (image.Image, error) {
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(path, tempDir, []string{"1"}, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var (
		best     image.Image
		bestArea int
	)
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		img, err := decodeFile(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}
		if area := img.Bounds().Dx() * img.Bounds().Dy(); area > bestArea {
			best, bestArea = img, area
		}
	}

	if best == nil {
		return nil, ErrNoPageImage
	}
	return best, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}
