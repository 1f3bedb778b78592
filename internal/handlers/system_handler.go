package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Clients   int    `json:"clients"`
}

// Health handles GET /health
func (h *HandlerManager) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Clients:   h.Hub.Count(),
	})
}

// ServeWS handles GET /ws
func (h *HandlerManager) ServeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.Hub.ServeWS(w, r)
}

// MetricsHandler handles GET /metrics
func (h *HandlerManager) MetricsHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.Metrics.Handler().ServeHTTP(w, r)
}

// QRCode handles GET /qr: a PNG QR code of the public join URL.
func (h *HandlerManager) QRCode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	url := h.Config.PublicURL
	if url == "" {
		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		url = scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")
	}

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
