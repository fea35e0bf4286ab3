package service

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/Aashish23092/passport-reader/utils"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	upscaleFactor   = 1.5
	morphKernelSize = 1
	blurKernelSize  = 5
)

// Preprocessor prepares a passport image for full page OCR. Filtered images
// are written under editDir/<stem>/.
type Preprocessor struct {
	editDir string
}

func NewPreprocessor(editDir string) *Preprocessor {
	return &Preprocessor{editDir: editDir}
}

// WriteFiltered applies the OCR filter chain to imagePath and saves the
// result as editDir/<stem>/<stem>_filter.jpg. The caller removes the file.
func (p *Preprocessor) WriteFiltered(imagePath string) (string, error) {
	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	stem, err := utils.OutputStem(imagePath)
	if err != nil {
		return "", err
	}
	outputDir := filepath.Join(p.editDir, stem)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filtered := FilterForOCR(img)

	savePath := filepath.Join(outputDir, stem+"_filter.jpg")
	if err := imaging.Save(filtered, savePath); err != nil {
		return "", fmt.Errorf("failed to save filtered image: %w", err)
	}
	return savePath, nil
}

// FilterForOCR runs: 1.5x cubic upscale, grayscale, dilate, erode,
// 5x5 gaussian blur, Otsu binarization.
func FilterForOCR(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * upscaleFactor))
	h := int(math.Round(float64(b.Dy()) * upscaleFactor))

	out := imaging.Resize(img, w, h, imaging.CatmullRom)
	out = imaging.Grayscale(out)
	out = Dilate(out, morphKernelSize)
	out = Erode(out, morphKernelSize)
	out = GaussianBlur5x5(out)
	return Binarize(out)
}

// Binarize thresholds a grayscale image at its Otsu level: pixels above the
// level become white, the rest black.
func Binarize(img *image.NRGBA) *image.NRGBA {
	level := OtsuThreshold(imaging.Histogram(img))
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		if c.R > level {
			return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.NRGBA{A: 255}
	})
}

// OtsuThreshold returns the level maximizing between-class variance of a
// normalized luminance histogram.
func OtsuThreshold(hist [256]float64) uint8 {
	var total, mean float64
	for i, p := range hist {
		total += p
		mean += float64(i) * p
	}
	if total == 0 {
		return 0
	}
	mean /= total

	var (
		best      float64
		level     int
		weightLow float64
		sumLow    float64
	)
	for t := 0; t < 256; t++ {
		weightLow += hist[t] / total
		sumLow += float64(t) * hist[t] / total
		weightHigh := 1 - weightLow
		if weightLow <= 0 || weightHigh <= 0 {
			continue
		}
		meanLow := sumLow / weightLow
		meanHigh := (mean - sumLow) / weightHigh
		variance := weightLow * weightHigh * (meanLow - meanHigh) * (meanLow - meanHigh)
		if variance > best {
			best = variance
			level = t
		}
	}
	return uint8(level)
}

// GaussianBlur5x5 convolves with a 5x5 gaussian kernel. Sigma is derived
// from the kernel size the way OpenCV does when it is given as 0.
func GaussianBlur5x5(img *image.NRGBA) *image.NRGBA {
	sigma := 0.3*((blurKernelSize-1)*0.5-1) + 0.8

	var row [blurKernelSize]float64
	for i := range row {
		x := float64(i - blurKernelSize/2)
		row[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
	}

	var kernel [blurKernelSize * blurKernelSize]float64
	for y := range row {
		for x := range row {
			kernel[y*blurKernelSize+x] = row[y] * row[x]
		}
	}
	return imaging.Convolve5x5(img, kernel, &imaging.ConvolveOptions{Normalize: true})
}

// Dilate replaces every pixel with the brightest value in its k x k
// neighbourhood. k <= 1 leaves the image unchanged.
func Dilate(img *image.NRGBA, k int) *image.NRGBA {
	return morph(img, k, func(a, b uint8) bool { return b > a })
}

// Erode replaces every pixel with the darkest value in its k x k
// neighbourhood. k <= 1 leaves the image unchanged.
func Erode(img *image.NRGBA, k int) *image.NRGBA {
	return morph(img, k, func(a, b uint8) bool { return b < a })
}

func morph(img *image.NRGBA, k int, better func(cur, cand uint8) bool) *image.NRGBA {
	out := imaging.Clone(img)
	if k <= 1 {
		return out
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	src := imaging.Clone(img)
	lo := (k - 1) / 2
	hi := k - 1 - lo

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*src.Stride + x*4
			v := src.Pix[i]
			for dy := -lo; dy <= hi; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -lo; dx <= hi; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					if cand := src.Pix[yy*src.Stride+xx*4]; better(v, cand) {
						v = cand
					}
				}
			}
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = v, v, v
		}
	}
	return out
}
