package webhooks

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/amaken/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// APIKeyMiddleware rejects calls that do not carry the configured key in
// the X-API-Key header. An empty configured key disables the webhook
// surface entirely.
func APIKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" || c.GetHeader("X-API-Key") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "a valid API key is required",
			})
			return
		}

		c.Next()
	}
}

// bodyWriter duplicates everything written to the response so the audit
// log can persist it.
type bodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// AuditMiddleware persists every webhook call with its request and
// response bodies. A failing audit write never fails the call itself.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		request, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(request))

		writer := &bodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		entry := models.WebhookLog{
			Endpoint:     c.FullPath(),
			RequestBody:  string(request),
			ResponseBody: writer.body.String(),
			StatusCode:   writer.Status(),
		}

		// Action and sender are top-level body fields on POST calls and
		// query parameters on GET calls
		var envelope struct {
			Action      string `json:"action"`
			SenderPhone string `json:"senderPhone"`
		}
		if err := json.Unmarshal(request, &envelope); err == nil {
			entry.Action = envelope.Action
			entry.SenderPhone = envelope.SenderPhone
		}

		if entry.SenderPhone == "" {
			entry.SenderPhone = c.Query("phone")
		}
		if entry.Action == "" {
			entry.Action = c.Query("scope")
		}

		if writer.Status() >= http.StatusBadRequest {
			var failure struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(writer.body.Bytes(), &failure); err == nil {
				entry.Error = failure.Error
			}
		}

		if err := models.DB.Create(&entry).Error; err != nil {
			log.Error().Err(err).Str("endpoint", entry.Endpoint).Msg("audit log write failed")
		}
	}
}
