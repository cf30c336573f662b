package main

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/models"
	"github.com/rentdesk/rentroll_backend/utils"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

const thumbnailMaxDim = 256

var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// uploadTenantDocumentHandler accepts one multipart file for one of the
// tenant's document slots. The object key is deterministic per slot, so
// re-uploading replaces the previous file. A profile photo additionally gets
// a downscaled thumbnail stored next to the original.
func uploadTenantDocumentHandler(c *gin.Context) {
	logger := config.GetLogger()

	tenantId, ok := pathId(c)
	if !ok {
		return
	}
	kind, err := models.ParseTenantDocumentKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file form field is required"})
		return
	}
	if fileHeader.Size > maxUploadSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !documentExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}
	if kind == models.TenantDocumentProfilePhoto && ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile photo must be a jpeg or png image"})
		return
	}

	ownerId, _ := utils.GetOwnerIdFromContext(c.Request.Context())

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	objectKey := models.TenantDocumentObjectKey(ownerId, tenantId, kind, ext)
	if err := utils.UploadFileToGCS(c.Request.Context(), objectKey, file); err != nil {
		config.LogError(logger, "uploads.go", "uploadTenantDocumentHandler", "UploadFileToGCS", objectKey, err)
		message := "failed to upload file"
		if !strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
			message = fmt.Sprintf("failed to upload file: %v", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
		return
	}

	accessURL := utils.BuildObjectAccessURL(objectKey)

	thumbnailURL := ""
	if kind == models.TenantDocumentProfilePhoto {
		// Thumbnail generation is best-effort; the original already landed.
		if url, err := uploadProfileThumbnail(c, ownerId, tenantId, fileHeader); err != nil {
			config.LogError(logger, "uploads.go", "uploadTenantDocumentHandler", "uploadProfileThumbnail", objectKey, err)
		} else {
			thumbnailURL = url
		}
	}

	tenant, err := models.SetTenantDocumentURL(c.Request.Context(), tenantId, kind, accessURL)
	if err != nil {
		// Roll back the blob so the slot never points at an orphan.
		if delErr := utils.DeleteObjectFromGCS(c.Request.Context(), objectKey); delErr != nil {
			config.LogError(logger, "uploads.go", "uploadTenantDocumentHandler", "DeleteObjectFromGCS rollback", objectKey, delErr)
		}
		respondError(c, err)
		return
	}

	resp := gin.H{
		"tenant":     tenant,
		"object_key": objectKey,
		"url":        accessURL,
	}
	if thumbnailURL != "" {
		resp["thumbnail_url"] = thumbnailURL
	}
	c.JSON(http.StatusOK, resp)
}

func uploadProfileThumbnail(c *gin.Context, ownerId string, tenantId int, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}
	thumb := imaging.Fit(img, thumbnailMaxDim, thumbnailMaxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", err
	}

	thumbKey := models.TenantDocumentObjectKey(ownerId, tenantId, models.TenantDocumentProfilePhoto, "_thumb.jpg")
	if err := utils.UploadBytesToGCS(c.Request.Context(), thumbKey, buf.Bytes(), "image/jpeg"); err != nil {
		return "", err
	}
	return utils.BuildObjectAccessURL(thumbKey), nil
}

// signTenantDocumentHandler returns a short-lived V4 signed URL for reading a
// document slot. The bucket stays private; clients never see raw object URLs
// they could reuse indefinitely.
func signTenantDocumentHandler(c *gin.Context) {
	tenantId, ok := pathId(c)
	if !ok {
		return
	}
	kind, err := models.ParseTenantDocumentKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	tenant, err := models.GetTenant(c.Request.Context(), tenantId)
	if err != nil {
		respondError(c, err)
		return
	}
	stored := tenant.DocumentURL(kind)
	if stored == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not uploaded"})
		return
	}

	objectKey := utils.ExtractObjectKeyFromURL(stored)
	if objectKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not uploaded"})
		return
	}

	expires := 15 * time.Minute
	signedURL, err := utils.SignDownload(c.Request.Context(), objectKey, expires)
	if err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "uploads.go", "signTenantDocumentHandler", "SignDownload", objectKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign download"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        signedURL,
		"expires_at": time.Now().Add(expires).UTC().Format(time.RFC3339),
	})
}

func deleteTenantDocumentHandler(c *gin.Context) {
	logger := config.GetLogger()

	tenantId, ok := pathId(c)
	if !ok {
		return
	}
	kind, err := models.ParseTenantDocumentKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	tenant, err := models.GetTenant(c.Request.Context(), tenantId)
	if err != nil {
		respondError(c, err)
		return
	}
	stored := tenant.DocumentURL(kind)
	if stored == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not uploaded"})
		return
	}

	objectKey := utils.ExtractObjectKeyFromURL(stored)
	if err := utils.DeleteObjectFromGCS(c.Request.Context(), objectKey); err != nil {
		config.LogError(logger, "uploads.go", "deleteTenantDocumentHandler", "DeleteObjectFromGCS", objectKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete file"})
		return
	}

	tenant, err = models.SetTenantDocumentURL(c.Request.Context(), tenantId, kind, "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}
