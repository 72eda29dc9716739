package middleware

import (
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// brotliWriter подменяет тело ответа сжатым потоком.
type brotliWriter struct {
	gin.ResponseWriter
	writer *brotli.Writer
}

func (w *brotliWriter) Write(data []byte) (int, error) {
	return w.writer.Write(data)
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.writer.Write([]byte(s))
}

func (w *brotliWriter) WriteHeader(code int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

// Compress сжимает ответы brotli, если клиент прислал Accept-Encoding: br.
// WebSocket upgrade, HEAD и Range запросы пропускаются без изменений.
func Compress(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		if req.Method == "HEAD" ||
			req.Header.Get("Range") != "" ||
			strings.EqualFold(req.Header.Get("Upgrade"), "websocket") ||
			!acceptsBrotli(req.Header.Get("Accept-Encoding")) {
			c.Next()
			return
		}

		c.Header("Content-Encoding", "br")
		c.Header("Vary", "Accept-Encoding")

		bw := brotli.NewWriterLevel(c.Writer, level)
		original := c.Writer
		c.Writer = &brotliWriter{ResponseWriter: original, writer: bw}
		defer func() {
			_ = bw.Close()
			c.Writer = original
		}()

		c.Next()
	}
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		enc, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.TrimSpace(enc) != "br" {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}
	return false
}
