// ABOUTME: Profile picture uploads for the development API.
// ABOUTME: Decodes the image, downscales wide ones with x/image/draw, and stores it as JPEG in memory.
package devapi

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/image/draw"
)

const (
	maxAvatarWidth = 256
	jpegQuality    = 85
	maxUploadSize  = 10 << 20
)

// processAvatar decodes src, shrinks it to at most maxAvatarWidth wide, and
// re-encodes it as JPEG.
func processAvatar(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxAvatarWidth {
		newH := h * maxAvatarWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxAvatarWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	data, err := processAvatar(file)
	if err != nil {
		s.log.Warnf("Rejected upload: %v", err)
		writeMessage(w, http.StatusBadRequest, "Invalid image")
		return
	}

	name := uuid.NewString() + ".jpg"
	s.mu.Lock()
	s.uploads[name] = data
	s.mu.Unlock()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"file_url": fmt.Sprintf("%s://%s/uploads/%s", scheme, r.Host, name),
	})
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	data, ok := s.uploads[mux.Vars(r)["name"]]
	s.mu.RUnlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = w.Write(data)
}
