package handler

import (
	"fmt"
	"net/http"
	"strconv"
)

type pngResponse struct {
	data     []byte
	filename string
}

func (p pngResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(p.data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if p.filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", p.filename))
	}
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(p.data)
	return err
}

// PNG writes an image/png body. An empty filename omits Content-Disposition.
func PNG(data []byte, filename string) Response {
	return pngResponse{data: data, filename: filename}
}
