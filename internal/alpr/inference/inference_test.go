package inference

import (
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masr-vision/platetrack/internal/alpr"
)

func testFrame() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 64, 48))
}

func TestDetectorClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/detect", r.URL.Path)
		require.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))

		_, err := jpeg.Decode(r.Body)
		require.NoError(t, err, "request body must be a valid jpeg")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"box":[10,20,110,60],"score":0.91},{"box":[0,0,5,5],"score":0.4}]`))
	}))
	defer srv.Close()

	client := NewDetectorClient(srv.URL)
	boxes, err := client.DetectPlates(testFrame())
	require.NoError(t, err)
	require.Len(t, boxes, 2)
	assert.Equal(t, alpr.Box{X1: 10, Y1: 20, X2: 110, Y2: 60}, boxes[0].Box)
	assert.Equal(t, 0.91, boxes[0].Score)
	assert.Equal(t, 0.4, boxes[1].Score)
}

func TestDetectorClientNoDetections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	boxes, err := NewDetectorClient(srv.URL).DetectPlates(testFrame())
	require.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestDetectorClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewDetectorClient(srv.URL).DetectPlates(testFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestOCRClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ocr", r.URL.Path)
		require.Equal(t, "0.25", r.URL.Query().Get("conf"))
		w.Write([]byte(`[{"label":"alif","x_min":12.5},{"label":"7","x_min":40}]`))
	}))
	defer srv.Close()

	client := NewOCRClient(srv.URL, 0)
	tokens, err := client.ReadGlyphs(testFrame())
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, alpr.GlyphToken{Label: "alif", XMin: 12.5}, tokens[0])
	assert.Equal(t, alpr.GlyphToken{Label: "7", XMin: 40}, tokens[1])
}

func TestOCRClientCustomConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "0.5", r.URL.Query().Get("conf"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewOCRClient(srv.URL, 0.5).ReadGlyphs(testFrame())
	require.NoError(t, err)
}

func TestOCRClientBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	_, err := NewOCRClient(srv.URL, 0).ReadGlyphs(testFrame())
	require.Error(t, err)
}

func TestClientsSatisfyPipelineInterfaces(t *testing.T) {
	var _ alpr.PlateDetector = (*DetectorClient)(nil)
	var _ alpr.GlyphReader = (*OCRClient)(nil)
}
