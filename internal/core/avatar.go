package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/jo-hoe/peoplesearch/internal/backend/database"
	"github.com/jo-hoe/peoplesearch/internal/backend/imageinfo"
)

// AvatarSubmission is an avatar upload with base64 encoded image bytes.
// ID selects an existing image to update, PersonID the person owning it.
type AvatarSubmission struct {
	ID       string
	PersonID string
	B64Data  string
}

// PutAvatar stores the submitted image and points the owning person's avatar
// at it. It returns the id of the stored image.
func (service *CoreService) PutAvatar(ctx context.Context, avatar *AvatarSubmission) (string, error) {
	if avatar == nil || avatar.B64Data == "" {
		service.observer.ObserveAvatarWrite(OutcomeRejected)
		return "", validationError(MsgEmptyImageData)
	}

	data, err := decodeImageData(avatar.B64Data)
	if err != nil || len(data) == 0 {
		slog.Warn("PutAvatar: invalid image data",
			"id", avatar.ID, "personId", avatar.PersonID, "encodedLength", len(avatar.B64Data), "error", err)
		service.observer.ObserveAvatarWrite(OutcomeRejected)
		return "", validationError(MsgInvalidImageData)
	}

	return service.storeAvatar(ctx, &database.Image{ID: avatar.ID, PersonID: avatar.PersonID, Data: data})
}

// UploadAvatar stores raw image bytes as a new avatar of the given person.
func (service *CoreService) UploadAvatar(ctx context.Context, personID string, data []byte) (string, error) {
	if isBlank(personID) {
		service.observer.ObserveAvatarWrite(OutcomeRejected)
		return "", validationError(MsgPersonIDNotFound, personID)
	}
	return service.storeAvatar(ctx, &database.Image{PersonID: personID, Data: data})
}

// storeAvatar runs the lookup, conflict check and writes for one avatar under
// the locks of the image id and person id involved.
func (service *CoreService) storeAvatar(ctx context.Context, image *database.Image) (string, error) {
	if len(image.Data) == 0 {
		service.observer.ObserveAvatarWrite(OutcomeRejected)
		return "", validationError(MsgEmptyImageData)
	}

	info := imageinfo.Describe(image.Data)
	slog.Debug("storing avatar", "id", image.ID, "personId", image.PersonID,
		"format", info.Format, "width", info.Width, "height", info.Height, "sizeBytes", info.Size)

	var keys []string
	if !isBlank(image.ID) {
		keys = append(keys, imageLockKey(image.ID))
	}
	if !isBlank(image.PersonID) {
		keys = append(keys, personLockKey(image.PersonID))
	}
	unlock := service.locks.Lock(keys...)
	defer unlock()

	outcome := OutcomeCreated
	err := service.withTransaction(ctx, func(tx database.Transaction) error {
		var person *database.Person
		if !isBlank(image.PersonID) {
			p, err := tx.GetPersonByID(ctx, image.PersonID)
			if err != nil {
				return fmt.Errorf("get person %s: %w", image.PersonID, err)
			}
			if p == nil {
				return validationError(MsgPersonIDNotFound, image.PersonID)
			}
			person = p
		}

		var existing *database.Image
		if !isBlank(image.ID) {
			img, err := tx.GetImageByID(ctx, image.ID)
			if err != nil {
				return fmt.Errorf("get image %s: %w", image.ID, err)
			}
			// an image bound to one person cannot be rebound, not even to nobody
			if img != nil && !isBlank(img.PersonID) && img.PersonID != image.PersonID {
				return conflictError(MsgPersonIDMismatch)
			}
			existing = img
		}

		if existing == nil {
			image.ID = ""
			if err := tx.AddImage(ctx, image); err != nil {
				return err
			}
		} else {
			existing.Data = image.Data
			existing.PersonID = image.PersonID
			if err := tx.UpdateImage(ctx, existing); err != nil {
				return err
			}
			image.ID = existing.ID
			outcome = OutcomeUpdated
		}

		if person != nil {
			person.AvatarID = image.ID
			if err := tx.UpdatePerson(ctx, person); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		service.observer.ObserveAvatarWrite(outcomeForError(err))
		return "", err
	}

	service.observer.ObserveAvatarWrite(outcome)
	slog.Info("avatar stored", "id", image.ID, "personId", image.PersonID, "outcome", outcome)
	return image.ID, nil
}

// decodeImageData decodes standard base64, ignoring embedded whitespace.
func decodeImageData(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, encoded)
	return base64.StdEncoding.DecodeString(cleaned)
}

func outcomeForError(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindConflict {
			return OutcomeConflict
		}
		return OutcomeRejected
	}
	return OutcomeFailed
}
