// Package http exposes the vault server API: per-owner design documents
// addressed by id, plus presigned upload URLs for rendering binaries.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planmint/designvault/internal/common"
	"github.com/planmint/designvault/internal/logging"
	"github.com/planmint/designvault/internal/server/blob"
	"github.com/planmint/designvault/internal/server/models"
	"github.com/planmint/designvault/internal/server/repositories/designs"
)

// maxDocSize bounds one design document, including inlined source images.
const maxDocSize = 8 << 20

// Handler serves the design vault routes.
type Handler struct {
	repo   designs.Repository
	blobs  *blob.Store // nil when object storage is not configured
	logger logging.Logger
}

func NewHandler(repo designs.Repository, blobs *blob.Store, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Handler{repo: repo, blobs: blobs, logger: logger}
}

// designDoc is the subset of the wire document the server validates and
// promotes into columns. The rest of the payload is stored as-is.
type designDoc struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	OwnerID   string    `json:"ownerId"`
}

func (h *Handler) list(c *gin.Context) {
	owner := c.GetString(ownerKey)

	rows, err := h.repo.GetAllByOwner(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error(c.Request.Context(), "list designs failed", "owner", owner, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage error"})
		return
	}

	docs := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, json.RawMessage(row.Doc))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "designs": docs})
}

func (h *Handler) upsert(c *gin.Context) {
	owner := c.GetString(ownerKey)
	id := c.Param("id")

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocSize+1))
	if err != nil || len(raw) == 0 || len(raw) > maxDocSize {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	var doc designDoc
	if err := json.Unmarshal(raw, &doc); err != nil || doc.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid design document"})
		return
	}
	if doc.ID != id {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "document id does not match path"})
		return
	}
	if doc.OwnerID != owner {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "owner mismatch"})
		return
	}

	d := &models.Design{
		ID:        doc.ID,
		OwnerID:   owner,
		CreatedAt: doc.CreatedAt,
		Doc:       raw,
	}
	if err := h.repo.Upsert(c.Request.Context(), d); err != nil {
		if errors.Is(err, common.ErrPermission) {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "design owned by another account"})
			return
		}
		h.logger.Error(c.Request.Context(), "upsert design failed", "owner", owner, "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "syncedAt": d.SyncedAt})
}

func (h *Handler) delete(c *gin.Context) {
	owner := c.GetString(ownerKey)
	id := c.Param("id")

	if err := h.repo.DeleteByID(c.Request.Context(), owner, id); err != nil {
		h.logger.Error(c.Request.Context(), "delete design failed", "owner", owner, "id", id, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "storage error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) createUpload(c *gin.Context) {
	if h.blobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "object storage not configured"})
		return
	}

	owner := c.GetString(ownerKey)
	key, url, err := h.blobs.PresignPut(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error(c.Request.Context(), "presign upload failed", "owner", owner, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "presign error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "key": key, "url": url})
}

func (h *Handler) getUpload(c *gin.Context) {
	if h.blobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "object storage not configured"})
		return
	}

	owner := c.GetString(ownerKey)
	key := strings.TrimPrefix(c.Param("key"), "/")

	// Object keys are owner-partitioned; never presign someone else's.
	if !strings.HasPrefix(key, "renders/"+owner+"/") {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "key owned by another account"})
		return
	}

	url, err := h.blobs.PresignGet(c.Request.Context(), key)
	if err != nil {
		h.logger.Error(c.Request.Context(), "presign download failed", "owner", owner, "key", key, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "presign error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "key": key, "url": url})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
