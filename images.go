package travelblog

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/professor0121/tmkoc-sub002/authoring"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// processImage decodes an image from src, downscales anything wider than
// maxImageWidth, and re-encodes it as JPEG. The backend stores whatever it
// receives, so oversized camera uploads are shrunk here before the hop.
func processImage(src io.Reader, originalName string) (string, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return slugifyFilename(originalName) + ".jpg", buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if slug := authoring.Slugify(base); slug != "" {
		return slug
	}
	return "upload"
}

// handleImageUpload receives an editor upload, normalizes it, and forwards
// it to the backend's media endpoint. The JSON response feeds the editor's
// image picker with the hosted URL.
func (a *App) handleImageUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success": false, "message": "Unauthorized",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false, "message": "No image file provided",
		})
	}
	if file.Size > maxUploadSize {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false, "message": "File too large (max 10MB)",
		})
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	name, data, err := processImage(src, file.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false, "message": "Invalid image: " + err.Error(),
		})
	}

	url, err := a.API.UploadImage(c.Request().Context(), name, bytes.NewReader(data))
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]any{
			"success": false, "message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"url":     url,
	})
}
