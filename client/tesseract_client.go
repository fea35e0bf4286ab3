package client

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Aashish23092/passport-reader/logger"
	"github.com/Aashish23092/passport-reader/utils"
	"github.com/otiai10/gosseract/v2"
)

// TesseractClient runs Tesseract through gosseract. Each call uses its own
// gosseract client, so a TesseractClient is safe for concurrent use.
type TesseractClient struct {
	dataPath   string
	language   string
	timeout    time.Duration
	configFile string
	log        *logger.Logger
}

type TesseractOptions struct {
	DataPath string
	Language string
	Timeout  time.Duration
	// MRZEngineMode is written to a config file used for MRZ passes only.
	// A negative value keeps the engine default.
	MRZEngineMode int
}

func NewTesseractClient(opts TesseractOptions, log *logger.Logger) (*TesseractClient, error) {
	tc := &TesseractClient{
		dataPath: opts.DataPath,
		language: opts.Language,
		timeout:  opts.Timeout,
		log:      log.WithComponent("tesseract"),
	}
	if tc.language == "" {
		tc.language = "eng"
	}

	if opts.MRZEngineMode >= 0 {
		f, err := os.CreateTemp("", "mrz-*.config")
		if err != nil {
			return nil, fmt.Errorf("failed to create tesseract config: %w", err)
		}
		defer f.Close()
		if _, err := fmt.Fprintf(f, "tessedit_ocr_engine_mode %d\n", opts.MRZEngineMode); err != nil {
			os.Remove(f.Name())
			return nil, fmt.Errorf("failed to write tesseract config: %w", err)
		}
		tc.configFile = f.Name()
	}

	return tc, nil
}

// ExtractText extracts full page text from an image file
func (tc *TesseractClient) ExtractText(ctx context.Context, filePath string) (string, error) {
	return tc.run(ctx, func(client *gosseract.Client) error {
		if err := client.SetLanguage(tc.language); err != nil {
			return fmt.Errorf("failed to set language: %w", err)
		}
		if err := client.SetImage(filePath); err != nil {
			return fmt.Errorf("failed to set image: %w", err)
		}
		return nil
	})
}

// ExtractMRZText reads an encoded image restricted to the MRZ alphabet,
// treating it as a single block of text.
func (tc *TesseractClient) ExtractMRZText(ctx context.Context, image []byte) (string, error) {
	return tc.run(ctx, func(client *gosseract.Client) error {
		if tc.configFile != "" {
			if err := client.SetConfigFile(tc.configFile); err != nil {
				return fmt.Errorf("failed to set config file: %w", err)
			}
		}
		if err := client.SetLanguage("eng"); err != nil {
			return fmt.Errorf("failed to set language: %w", err)
		}
		if err := client.SetWhitelist(utils.MRZAlphabet); err != nil {
			return fmt.Errorf("failed to set whitelist: %w", err)
		}
		if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
			return fmt.Errorf("failed to set page segmentation: %w", err)
		}
		if err := client.SetImageFromBytes(image); err != nil {
			return fmt.Errorf("failed to set image: %w", err)
		}
		return nil
	})
}

type ocrResult struct {
	text string
	err  error
}

// run executes one recognition on its own goroutine so the caller can give
// up on it when ctx ends. An abandoned call still closes its client.
func (tc *TesseractClient) run(ctx context.Context, configure func(*gosseract.Client) error) (string, error) {
	if tc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tc.timeout)
		defer cancel()
	}

	done := make(chan ocrResult, 1)
	go func() {
		client := gosseract.NewClient()
		defer client.Close()

		if tc.dataPath != "" {
			if err := client.SetTessdataPrefix(tc.dataPath); err != nil {
				done <- ocrResult{err: fmt.Errorf("failed to set tessdata prefix: %w", err)}
				return
			}
		}
		if err := configure(client); err != nil {
			done <- ocrResult{err: err}
			return
		}

		text, err := client.Text()
		if err != nil {
			done <- ocrResult{err: fmt.Errorf("failed to extract text: %w", err)}
			return
		}
		done <- ocrResult{text: text}
	}()

	select {
	case <-ctx.Done():
		tc.log.Warn().Err(ctx.Err()).Msg("OCR call abandoned")
		return "", fmt.Errorf("OCR extraction aborted: %w", ctx.Err())
	case res := <-done:
		return res.text, res.err
	}
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	if tc.configFile != "" {
		os.Remove(tc.configFile)
	}
	tc.log.Info().Msg("Tesseract client closed")
}
