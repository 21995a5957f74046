package handler

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/response"
	"github.com/harborview/backoffice-api/pkg/storage"
)

// FilesHandler streams stored objects referenced by signed tokens.
type FilesHandler struct {
	store  storage.ObjectStore
	signer *storage.SignedURLSigner
}

// NewFilesHandler constructs a new FilesHandler.
func NewFilesHandler(store storage.ObjectStore, signer *storage.SignedURLSigner) *FilesHandler {
	return &FilesHandler{store: store, signer: signer}
}

// Serve godoc
// @Summary Download a file referenced by a signed token
// @Tags Files
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /files/{token} [get]
func (h *FilesHandler) Serve(c *gin.Context) {
	_, key, _, err := h.signer.Parse(c.Param("token"), false)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired link"))
		return
	}

	reader, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", "attachment; filename="+path.Base(key))
	c.Header("Content-Type", contentTypeForKey(key))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		_ = c.Error(err)
	}
}

func contentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".pdf":
		return "application/pdf"
	case ".csv":
		return "text/csv"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
