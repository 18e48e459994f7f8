package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jo-hoe/peoplesearch/internal/backend/database"
)

// ListPeople returns every person whose first or last name contains nameFilter,
// ignoring case and surrounding whitespace. A blank filter returns everyone.
func (service *CoreService) ListPeople(ctx context.Context, nameFilter string) ([]*database.Person, error) {
	people, err := service.databaseService.GetPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}

	filter := strings.ToLower(strings.TrimSpace(nameFilter))
	if filter == "" {
		return people, nil
	}

	matches := make([]*database.Person, 0, len(people))
	for _, p := range people {
		if strings.Contains(strings.ToLower(p.FirstName), filter) ||
			strings.Contains(strings.ToLower(p.LastName), filter) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (service *CoreService) GetPerson(ctx context.Context, id string) (*database.Person, error) {
	if isBlank(id) {
		return nil, validationError(MsgEmptyPersonID)
	}
	person, err := service.databaseService.GetPersonByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get person %s: %w", id, err)
	}
	if person == nil {
		return nil, notFoundError(MsgPersonIDNotFound, id)
	}
	return person, nil
}

// CreatePerson stores a new person. Any id on the input is ignored; the
// returned person carries the id assigned by the store.
func (service *CoreService) CreatePerson(ctx context.Context, person *database.Person) (*database.Person, error) {
	if person == nil {
		return nil, validationError(MsgUnrecognizedJSONObject)
	}
	if err := validateNames(person); err != nil {
		return nil, err
	}

	created := *person
	created.ID = ""
	err := service.withTransaction(ctx, func(tx database.Transaction) error {
		return tx.AddPerson(ctx, &created)
	})
	if err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}

	slog.Debug("person created", "id", created.ID)
	return &created, nil
}

// UpdatePerson copies every field but the id from person onto the stored entry.
func (service *CoreService) UpdatePerson(ctx context.Context, id string, person *database.Person) error {
	if person == nil {
		return validationError(MsgUnrecognizedJSONObject)
	}
	if isBlank(id) {
		return validationError(MsgEmptyPersonID)
	}
	if !isBlank(person.ID) && person.ID != id {
		return validationError(MsgPersonIDMismatch)
	}
	if err := validateNames(person); err != nil {
		return err
	}

	unlock := service.locks.Lock(personLockKey(id))
	defer unlock()

	return service.withTransaction(ctx, func(tx database.Transaction) error {
		existing, err := tx.GetPersonByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get person %s: %w", id, err)
		}
		if existing == nil {
			return notFoundError(MsgPersonIDNotFound, id)
		}
		existing.CopyFrom(person)
		return tx.UpdatePerson(ctx, existing)
	})
}

func (service *CoreService) DeletePerson(ctx context.Context, id string) error {
	if isBlank(id) {
		return validationError(MsgEmptyPersonID)
	}

	unlock := service.locks.Lock(personLockKey(id))
	defer unlock()

	return service.withTransaction(ctx, func(tx database.Transaction) error {
		existing, err := tx.GetPersonByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get person %s: %w", id, err)
		}
		if existing == nil {
			return notFoundError(MsgPersonIDNotFound, id)
		}
		return tx.RemovePerson(ctx, id)
	})
}

func validateNames(person *database.Person) error {
	if isBlank(person.FirstName) {
		return validationError(MsgEmptyPersonFirstName)
	}
	if isBlank(person.LastName) {
		return validationError(MsgEmptyPersonLastName)
	}
	return nil
}
