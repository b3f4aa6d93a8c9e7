package agent

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// compressImage scales the image named in the task (default image.png) to
// half its size and writes it next to the original as
// <name>-compressed.<ext>, keeping the source format.
func (a *Agent) compressImage(ctx context.Context, taskText string) (string, error) {
	name := firstFileToken(taskText, ".png", ".jpg", ".jpeg")
	if name == "" {
		name = "image.png"
	}
	src, err := a.resolveInput(name)
	if err != nil {
		return "", err
	}

	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx()/2, bounds.Dy()/2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	ext := filepath.Ext(src)
	dst := strings.TrimSuffix(src, ext) + "-compressed" + ext
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	switch format {
	case "png":
		err = png.Encode(out, scaled)
	case "jpeg":
		err = jpeg.Encode(out, scaled, nil)
	default:
		return "", fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", dst, err)
	}
	return "Compressed image written to " + dst, nil
}
