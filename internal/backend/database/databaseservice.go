package database

import "context"

type DatabaseService interface {
	CreateDatabase(ctx context.Context) error
	DoesDatabaseExist() bool
	Close() error

	// Begin opens a unit of work. Nothing written through the returned
	// Transaction is visible to other callers before Commit.
	Begin(ctx context.Context) (Transaction, error)

	// GetPeople returns all people in insertion order.
	GetPeople(ctx context.Context) ([]*Person, error)
	// GetPersonByID returns nil without an error if no person has exactly that id.
	GetPersonByID(ctx context.Context, id string) (*Person, error)
	// GetImageByID returns nil without an error if no image has exactly that id.
	GetImageByID(ctx context.Context, id string) (*Image, error)
	CountPeople(ctx context.Context) (int, error)
	CountImages(ctx context.Context) (int, error)
}

// Transaction collects pending changes that are persisted together by Commit.
type Transaction interface {
	GetPersonByID(ctx context.Context, id string) (*Person, error)
	GetImageByID(ctx context.Context, id string) (*Image, error)

	// AddPerson and AddImage always assign a new id and write it back into the entity.
	AddPerson(ctx context.Context, person *Person) error
	AddImage(ctx context.Context, image *Image) error

	// SeedPerson and SeedImage insert entities with caller chosen ids.
	SeedPerson(ctx context.Context, person *Person) error
	SeedImage(ctx context.Context, image *Image) error

	UpdatePerson(ctx context.Context, person *Person) error
	UpdateImage(ctx context.Context, image *Image) error
	RemovePerson(ctx context.Context, id string) error

	Commit() error
	// Rollback discards pending changes. It is a no-op after Commit.
	Rollback() error
}
