package backend

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/peoplesearch/internal/backend/imageinfo"
	"github.com/jo-hoe/peoplesearch/internal/core"
)

// maxUploadBytes bounds a single multipart avatar upload.
const maxUploadBytes = 10 << 20

// putAvatarBodyLimit leaves room for maxUploadBytes of base64 encoded data.
const putAvatarBodyLimit = "14M"

// AvatarRequest is the JSON body of PUT /api/image. Data is accepted as an
// alias of B64Data.
type AvatarRequest struct {
	ID       string `json:"id" validate:"max=256"`
	PersonID string `json:"personId" validate:"max=64"`
	B64Data  string `json:"b64Data"`
	Data     string `json:"data"`
}

func (s *APIService) getImageHandler(ctx echo.Context) error {
	file, err := s.coreService.GetImage(ctx.Request().Context(), pathParam(ctx, "id"))
	if err != nil {
		return httpError("getImageHandler", err)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", file.Name))
	return ctx.Blob(http.StatusOK, file.ContentType, file.Data)
}

func (s *APIService) getImageInfoHandler(ctx echo.Context) error {
	info, err := s.coreService.DescribeImage(ctx.Request().Context(), pathParam(ctx, "id"))
	if err != nil {
		return httpError("getImageInfoHandler", err)
	}
	return ctx.JSON(http.StatusOK, info)
}

func (s *APIService) getThumbnailHandler(ctx echo.Context) error {
	size := imageinfo.DefaultThumbnailSize
	if raw := ctx.QueryParam("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(core.MsgInvalidThumbnailSize, imageinfo.MinThumbnailSize, imageinfo.MaxThumbnailSize))
		}
		size = parsed
	}

	file, err := s.coreService.ThumbnailImage(ctx.Request().Context(), pathParam(ctx, "id"), size)
	if err != nil {
		return httpError("getThumbnailHandler", err)
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", file.Name))
	return ctx.Blob(http.StatusOK, file.ContentType, file.Data)
}

func (s *APIService) putAvatarHandler(ctx echo.Context) error {
	var req *AvatarRequest
	if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil && err != io.EOF {
		slog.Warn("putAvatarHandler: failed to decode request body", "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, core.MsgInvalidImageData)
	}

	var avatar *core.AvatarSubmission
	if req != nil {
		if err := ctx.Validate(req); err != nil {
			return err
		}
		avatar = &core.AvatarSubmission{ID: req.ID, PersonID: req.PersonID, B64Data: req.B64Data}
		if avatar.B64Data == "" {
			avatar.B64Data = req.Data
		}
	}

	if _, err := s.coreService.PutAvatar(ctx.Request().Context(), avatar); err != nil {
		return httpError("putAvatarHandler", err)
	}
	return ctx.NoContent(http.StatusOK)
}

func (s *APIService) uploadAvatarHandler(ctx echo.Context) error {
	ctx.Request().Body = http.MaxBytesReader(ctx.Response(), ctx.Request().Body, maxUploadBytes)

	form, err := ctx.MultipartForm()
	if err != nil {
		slog.Error("uploadAvatarHandler: failed to read multipart form", "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, core.MsgEmptyImageData)
	}

	var files []*multipart.FileHeader
	for _, headers := range form.File {
		files = append(files, headers...)
	}
	if len(files) != 1 {
		return echo.NewHTTPError(http.StatusBadRequest, core.MsgOneImageRequired)
	}

	src, err := files[0].Open()
	if err != nil {
		slog.Error("uploadAvatarHandler: failed to open uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", files[0].Filename)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to open uploaded file")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("uploadAvatarHandler: failed to close uploaded file reader", "error", cerr, "filename", files[0].Filename)
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		slog.Error("uploadAvatarHandler: failed to read uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", files[0].Filename)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read uploaded file")
	}

	if _, err := s.coreService.UploadAvatar(ctx.Request().Context(), pathParam(ctx, "personId"), data); err != nil {
		return httpError("uploadAvatarHandler", err)
	}
	return ctx.NoContent(http.StatusOK)
}
