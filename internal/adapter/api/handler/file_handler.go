package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"gigmarket/internal/domain/service"
	"gigmarket/internal/infrastructure/storage"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
	"gigmarket/pkg/response"
)

var allowedFolders = map[string]bool{
	"profiles": true,
	"postings": true,
}

type FileHandler struct {
	fileService service.FileUploadService
	maxFileSize int64
}

var fileHandler *FileHandler

func NewFileHandler(fileService service.FileUploadService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxFileSize: maxImageSize,
	}
}

func SetupFileHandler(fileService service.FileUploadService) {
	fileHandler = NewFileHandler(fileService)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

func (h *FileHandler) UploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		logger.Error("Error getting file from form: %v", err)
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > h.maxFileSize {
		logger.Warn("File too large: %d bytes (max: %d)", file.Size, h.maxFileSize)
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	fileType := file.Header.Get("Content-Type")
	if !storage.IsImageType(fileType) {
		logger.Warn("Invalid file type: %s", fileType)
		return response.Error(c, errors.BadRequest("Only images can be uploaded", nil))
	}

	folder := c.FormValue("folder")
	if !allowedFolders[folder] {
		return response.Error(c, errors.BadRequest("folder must be one of: profiles, postings", nil))
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("Error opening file: %v", err)
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	url, err := h.fileService.UploadFile(c.Request().Context(), src, fileType, folder)
	if err != nil {
		logger.Error("Upload by %s failed: %v", getUserIDFromContext(c), err)
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}

	return response.Created(c, map[string]interface{}{
		"url":      url,
		"filename": file.Filename,
		"size":     file.Size,
	})
}
