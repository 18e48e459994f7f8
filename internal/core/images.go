package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/peoplesearch/internal/backend/imageinfo"
)

// ImageFile is a stored image ready to be served.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (service *CoreService) GetImage(ctx context.Context, id string) (*ImageFile, error) {
	if isBlank(id) {
		return nil, validationError(MsgEmptyImageID)
	}
	image, err := service.databaseService.GetImageByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get image %s: %w", id, err)
	}
	if image == nil {
		return nil, notFoundError(MsgImageIDNotFound, id)
	}
	return &ImageFile{
		Name:        image.ID,
		ContentType: imageinfo.ContentTypeFromName(image.ID),
		Data:        image.Data,
	}, nil
}

// DescribeImage reports format and dimensions of a stored image.
func (service *CoreService) DescribeImage(ctx context.Context, id string) (imageinfo.Info, error) {
	file, err := service.GetImage(ctx, id)
	if err != nil {
		return imageinfo.Info{}, err
	}
	return imageinfo.Describe(file.Data), nil
}

// ThumbnailImage renders a square PNG preview of a stored image.
func (service *CoreService) ThumbnailImage(ctx context.Context, id string, size int) (*ImageFile, error) {
	if size < imageinfo.MinThumbnailSize || size > imageinfo.MaxThumbnailSize {
		return nil, validationError(MsgInvalidThumbnailSize, imageinfo.MinThumbnailSize, imageinfo.MaxThumbnailSize)
	}
	file, err := service.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := imageinfo.Thumbnail(file.Data, size)
	if err != nil {
		slog.Debug("thumbnail not renderable", "id", id, "error", err)
		return nil, validationError(MsgInvalidImageData)
	}
	return &ImageFile{Name: file.Name, ContentType: imageinfo.MimePNG, Data: data}, nil
}
