package handlers

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Short public cache with background revalidation, applied to every GET
// response including errors so upstream caches absorb repeat failures.
const (
	cacheControlValue    = "max-age=0, s-maxage=60, stale-while-revalidate=600"
	cdnCacheControlValue = "s-maxage=60, stale-while-revalidate=600"
	varyValue            = "Accept-Encoding"
)

func applyCacheHeaders(c *gin.Context) {
	c.Header("Cache-Control", cacheControlValue)
	c.Header("CDN-Cache-Control", cdnCacheControlValue)
	c.Header("Vary", mergeVary(c.Writer.Header().Get("Vary"), varyValue))
}

func mergeVary(existing, value string) string {
	if existing == "" {
		return value
	}
	parts := []string{}
	for _, part := range strings.Split(existing, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	for _, part := range parts {
		if part == value {
			return strings.Join(parts, ", ")
		}
	}
	return strings.Join(append(parts, value), ", ")
}

// respondCached writes payload as JSON under the public cache headers.
func respondCached(c *gin.Context, status int, payload interface{}) {
	applyCacheHeaders(c)
	c.JSON(status, payload)
}

// respondCachedETag additionally tags the body with a content-hash
// validator and answers 304 when the client already holds it.
func respondCachedETag(c *gin.Context, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	etag := etagFor(body)
	applyCacheHeaders(c)
	c.Header("ETag", etag)
	if matchesETag(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func respondError(c *gin.Context, status int, message string) {
	respondCached(c, status, gin.H{"error": message})
}

func etagFor(body []byte) string {
	sum := sha1.Sum(body)
	return `"` + base64.StdEncoding.EncodeToString(sum[:]) + `"`
}

func matchesETag(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimSpace(candidate) == etag {
			return true
		}
	}
	return false
}
