package conversions

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-converter/internal/shared/server/respond"
	"resume-converter/resume/render"
)

const (
	detailUnsupportedType = "unsupported file type"
	detailFileNotFound    = "file not found"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches conversion routes to the router group. The download
// route only exists when document generation is enabled.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("/conversions", h.list)
	if h.Svc.DocxEnabled {
		rg.GET("/download/:filename", h.download)
	}
}

func (h *Handler) upload(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file too large")
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required")
		return
	}

	declared, err := NormalizeDeclaredType(fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", detailUnsupportedType)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}
	defer file.Close()

	// OCR keeps running if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	res, err := h.Svc.Convert(ctx, Upload{FileName: fileHeader.Filename, DeclaredType: declared}, file)
	if res.Record.ID != "" {
		c.Set("conversionId", res.Record.ID)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}
	if res.DocxFile != "" {
		c.Set("docxFile", res.DocxFile)
	}

	respond.OK(c, UploadResponse{
		Status:   "success",
		Text:     res.Text,
		DocxFile: res.DocxFile,
	})
}

func (h *Handler) download(c *gin.Context) {
	name := c.Param("filename")

	rc, err := h.Svc.OpenDocument(c.Request.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", detailFileNotFound)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, render.ContentType, rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": name}),
	})
}

func (h *Handler) list(c *gin.Context) {
	limit := defaultListLimit
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	convs, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list conversions")
		}
		return
	}

	resp := make([]ConversionResponse, 0, len(convs))
	for _, conv := range convs {
		resp = append(resp, toResponse(conv))
	}
	respond.OK(c, resp)
}
