package gerlin

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/donmariogerlin/gerlin/admin"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 82
	maxUploadSize = 10 << 20 // 10MB
)

var (
	errTooLarge        = errors.New("file too large (max 10MB)")
	errUnsupportedFile = errors.New("unsupported file type")
)

// readUpload reads the multipart file up to maxUploadSize bytes.
func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxUploadSize {
		return nil, errTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadSize {
		return nil, errTooLarge
	}
	return data, nil
}

// processImage decodes an image, shrinks it to maxImageWidth when wider and
// re-encodes it as JPEG. Transparent areas come out white.
func processImage(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		w, h = maxImageWidth, max(h*maxImageWidth/w, 1)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == bounds.Dx() {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func jpegName(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if base == "" || base == "." || base == "/" {
		base = "upload"
	}
	return base + ".jpg"
}

// stagePhoto turns an uploaded gallery image into a staged JPEG.
func stagePhoto(fh *multipart.FileHeader) (*admin.StagedFile, error) {
	data, err := readUpload(fh)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, errUnsupportedFile
	}
	out, err := processImage(data)
	if err != nil {
		return nil, err
	}
	return &admin.StagedFile{Name: jpegName(fh.Filename), ContentType: "image/jpeg", Data: out}, nil
}

// stageDocument accepts PDFs as they are and normalizes images like
// gallery photos.
func stageDocument(fh *multipart.FileHeader) (*admin.StagedFile, error) {
	data, err := readUpload(fh)
	if err != nil {
		return nil, err
	}
	ct := http.DetectContentType(data)
	switch {
	case ct == "application/pdf":
		return &admin.StagedFile{Name: path.Base(fh.Filename), ContentType: ct, Data: data}, nil
	case strings.HasPrefix(ct, "image/"):
		out, err := processImage(data)
		if err != nil {
			return nil, err
		}
		return &admin.StagedFile{Name: jpegName(fh.Filename), ContentType: "image/jpeg", Data: out}, nil
	}
	return nil, errUnsupportedFile
}
