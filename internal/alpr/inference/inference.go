// Package inference provides HTTP adapters for the plate-detection and
// glyph-OCR model servers. The pipeline consumes both as opaque
// capabilities; these clients are the concrete wiring for a remote
// inference backend.
package inference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"time"

	"github.com/masr-vision/platetrack/internal/alpr"
)

// DefaultMinConfidence is the confidence floor passed to the OCR model.
const DefaultMinConfidence = 0.25

const defaultTimeout = 30 * time.Second

// DetectorClient calls a plate-detection model server. The server accepts
// a JPEG-encoded frame on POST /detect and returns a JSON array of
// {box: [x1,y1,x2,y2], score} objects.
type DetectorClient struct {
	BaseURL string
	Client  *http.Client
}

// NewDetectorClient builds a detector client for the given server URL.
func NewDetectorClient(baseURL string) *DetectorClient {
	return &DetectorClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: defaultTimeout},
	}
}

type detectionPayload struct {
	Box   [4]int  `json:"box"`
	Score float64 `json:"score"`
}

// DetectPlates posts the frame to the model server and decodes the
// returned plate boxes.
func (c *DetectorClient) DetectPlates(frame image.Image) ([]alpr.PlateBox, error) {
	var payload []detectionPayload
	if err := c.postImage(c.BaseURL+"/detect", frame, &payload); err != nil {
		return nil, err
	}

	boxes := make([]alpr.PlateBox, len(payload))
	for i, p := range payload {
		boxes[i] = alpr.PlateBox{
			Box:   alpr.Box{X1: p.Box[0], Y1: p.Box[1], X2: p.Box[2], Y2: p.Box[3]},
			Score: p.Score,
		}
	}
	return boxes, nil
}

func (c *DetectorClient) postImage(url string, img image.Image, out interface{}) error {
	return postImage(c.Client, url, img, out)
}

// OCRClient calls a glyph-detection model server. The server accepts a
// JPEG-encoded plate crop on POST /ocr and returns a JSON array of
// {label, x_min} objects.
type OCRClient struct {
	BaseURL       string
	Client        *http.Client
	MinConfidence float64
}

// NewOCRClient builds an OCR client for the given server URL.
func NewOCRClient(baseURL string, minConfidence float64) *OCRClient {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &OCRClient{
		BaseURL:       baseURL,
		Client:        &http.Client{Timeout: defaultTimeout},
		MinConfidence: minConfidence,
	}
}

type glyphPayload struct {
	Label string  `json:"label"`
	XMin  float64 `json:"x_min"`
}

// ReadGlyphs posts the plate crop to the model server and decodes the
// returned glyph tokens.
func (c *OCRClient) ReadGlyphs(crop image.Image) ([]alpr.GlyphToken, error) {
	url := fmt.Sprintf("%s/ocr?conf=%g", c.BaseURL, c.MinConfidence)
	var payload []glyphPayload
	if err := postImage(c.Client, url, crop, &payload); err != nil {
		return nil, err
	}

	tokens := make([]alpr.GlyphToken, len(payload))
	for i, p := range payload {
		tokens[i] = alpr.GlyphToken{Label: p.Label, XMin: p.XMin}
	}
	return tokens, nil
}

func postImage(client *http.Client, url string, img image.Image, out interface{}) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	resp, err := client.Post(url, "image/jpeg", &buf)
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: unexpected status %s", url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", url, err)
	}
	return nil
}
