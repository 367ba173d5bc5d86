package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxDecompressedBody caps how many bytes a gzip request body may inflate to.
const MaxDecompressedBody int64 = 1 << 20

// DecompressRequest inflates gzip encoded request bodies. Response compression
// is left to gin-contrib/gzip in the router.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasGzipEncoding(c.GetHeader("Content-Encoding")) {
			c.Next()
			return
		}

		compressed := c.Request.Body
		reader, err := gzip.NewReader(compressed)
		if err != nil {
			abort(c, http.StatusBadRequest, "malformed gzip body")
			return
		}
		defer compressed.Close()

		c.Request.Body = http.MaxBytesReader(c.Writer, reader, MaxDecompressedBody)
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}

func hasGzipEncoding(header string) bool {
	for _, enc := range strings.Split(header, ",") {
		if strings.EqualFold(strings.TrimSpace(enc), "gzip") {
			return true
		}
	}
	return false
}
