package folio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	imagesPrefix  = "images/"
)

// UploadedImage describes a stored image.
type UploadedImage struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Size        int    `json:"size"`
}

// processImage decodes an image from src, resizes it to maxImageWidth when
// wider, and encodes it as JPEG.
func processImage(src io.Reader) ([]byte, int, int, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxImageWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), w, h, nil
}

// imageKey builds the blob key for an upload: images/<slug>-<8 hex>.jpg.
// The random suffix keeps repeated uploads of one filename apart.
func imageKey(filename string) string {
	base := Slugify(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "image"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return imagesPrefix + base + "-" + suffix + ".jpg"
}

// readUpload returns the image bytes from either a multipart "image" field
// or the raw request body.
func readUpload(c echo.Context) ([]byte, error) {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxUploadSize)

	var src io.Reader = req.Body
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		file, err := c.FormFile("image")
		if err != nil {
			return nil, err
		}
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src = f
	}
	return io.ReadAll(src)
}

func (a *App) handleImageUpload(c echo.Context) error {
	filename := strings.TrimSpace(c.QueryParam("filename"))
	if filename == "" {
		return &ValidationError{Message: "filename is required"}
	}

	raw, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "image too large (max 10MB)"})
		}
		return &ValidationError{Message: "no image provided"}
	}
	if len(raw) == 0 {
		return &ValidationError{Message: "no image provided"}
	}

	data, w, h, err := processImage(bytes.NewReader(raw))
	if err != nil {
		return &ValidationError{Message: "invalid image: unsupported or corrupt file"}
	}

	key := imageKey(filename)
	url, err := a.Blobs.Put(c.Request().Context(), key, "image/jpeg", data)
	if err != nil {
		return &UpstreamError{Service: "blob", Err: err}
	}
	a.logger.Info("image uploaded", "key", key, "bytes", len(data), "width", w, "height", h)

	return c.JSON(http.StatusOK, UploadedImage{
		URL:         url,
		Pathname:    key,
		ContentType: "image/jpeg",
		Width:       w,
		Height:      h,
		Size:        len(data),
	})
}
