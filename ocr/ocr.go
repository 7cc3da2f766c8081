//go:build ocr

// Package ocr recognizes text in images embedded in document packages,
// primarily to generate alt text for images that carry none.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// Regions performs OCR and returns per-word regions with bounding
// boxes and confidences normalized to 0..1.
func (c *Client) Regions(imageData []byte) ([]Region, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	regions := make([]Region, 0, len(boxes))
	for _, b := range boxes {
		word := strings.TrimSpace(b.Word)
		if word == "" {
			continue
		}
		r := b.Box
		regions = append(regions, Region{
			Quad: [4]Point{
				{X: r.Min.X, Y: r.Min.Y},
				{X: r.Max.X, Y: r.Min.Y},
				{X: r.Max.X, Y: r.Max.Y},
				{X: r.Min.X, Y: r.Max.Y},
			},
			Text:       word,
			Confidence: b.Confidence / 100,
		})
	}
	return regions, nil
}

// AltText recognizes the image and condenses the result into a single
// line suitable for an image's alternative text. Empty recognition
// yields an empty string, not an error.
func (c *Client) AltText(imageData []byte) (string, error) {
	text, err := c.RecognizeImage(imageData)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(text), " "), nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}
