package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every DatabaseService backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) DatabaseService) {
	t.Run("AddAssignsFreshIDs", func(t *testing.T) {
		ds := newStore(t)
		ctx := context.Background()

		tx := mustBegin(t, ds)
		person := &Person{ID: "99", FirstName: "a", LastName: "b"}
		require.NoError(t, tx.AddPerson(ctx, person))
		image := &Image{ID: "world.png", Data: []byte{0x01}}
		require.NoError(t, tx.AddImage(ctx, image))
		require.NoError(t, tx.Commit())

		assert.NotContains(t, []string{"", "99"}, person.ID)
		assert.NotContains(t, []string{"", "world.png"}, image.ID)

		got, err := ds.GetPersonByID(ctx, person.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "a", got.FirstName)
		assert.Equal(t, "b", got.LastName)
	})

	t.Run("LookupMissReturnsNil", func(t *testing.T) {
		ds := newStore(t)
		ctx := context.Background()

		p, err := ds.GetPersonByID(ctx, "non-existent-id")
		require.NoError(t, err)
		assert.Nil(t, p)

		img, err := ds.GetImageByID(ctx, "non-existent-id")
		require.NoError(t, err)
		assert.Nil(t, img)
	})

	t.Run("RollbackDiscardsChanges", func(t *testing.T) {
		ds := newStore(t)
		ctx := context.Background()

		tx := mustBegin(t, ds)
		require.NoError(t, tx.SeedPerson(ctx, &Person{ID: "1", FirstName: "Hello", LastName: "World"}))
		require.NoError(t, tx.Rollback())

		n, err := ds.CountPeople(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("UpdatePreservesID", func(t *testing.T) {
		ds := newStore(t)
		ctx := context.Background()
		seed(t, ds, &Person{ID: "1", FirstName: "Hello", LastName: "World"}, &Image{ID: "world.png", PersonID: "1", Data: []byte("old")})

		tx := mustBegin(t, ds)
		require.NoError(t, tx.UpdatePerson(ctx, &Person{ID: "1", FirstName: "Goodbye", LastName: "World", Age: 3, AvatarID: "world.png"}))
		require.NoError(t, tx.UpdateImage(ctx, &Image{ID: "world.png", Data: []byte("new")}))
		require.NoError(t, tx.Commit())

		p, err := ds.GetPersonByID(ctx, "1")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Goodbye", p.FirstName)
		assert.Equal(t, 3, p.Age)
		assert.Equal(t, "world.png", p.AvatarID)

		img, err := ds.GetImageByID(ctx, "world.png")
		require.NoError(t, err)
		require.NotNil(t, img)
		assert.Equal(t, []byte("new"), img.Data)
		assert.Empty(t, img.PersonID)
	})

	t.Run("UpdateAndRemoveMissing", func(t *testing.T) {
		ds := newStore(t)
		ctx := context.Background()

		tx := mustBegin(t, ds)
		defer func() { _ = tx.Rollback() }()
		assert.ErrorIs(t, tx.UpdatePerson(ctx, &Person{ID: "404", FirstName: "a", LastName: "b"}), ErrNotFound)
		assert.ErrorIs(t, tx.UpdateImage(ctx, &Image{ID: "404", Data: []byte{1}}), ErrNotFound)
		assert.ErrorIs(t, tx.RemovePerson(ctx, "404"), ErrNotFound)
	})

	t.Run("GetPeopleKeepsInsertionOrder", func(t *testing.T) {
		ds := newStore(t)
		ctx := context.Background()
		seed(t, ds,
			&Person{ID: "2", FirstName: "John", LastName: "Smith"},
			&Person{ID: "1", FirstName: "Hello", LastName: "World"},
			&Person{ID: "7", FirstName: "Mr", LastName: "Ed"},
		)

		tx := mustBegin(t, ds)
		require.NoError(t, tx.RemovePerson(ctx, "1"))
		require.NoError(t, tx.Commit())

		people, err := ds.GetPeople(ctx)
		require.NoError(t, err)
		require.Len(t, people, 2)
		assert.Equal(t, "2", people[0].ID)
		assert.Equal(t, "7", people[1].ID)
	})

	t.Run("TransactionReadsOwnWrites", func(t *testing.T) {
		ds := newStore(t)
		ctx := context.Background()

		tx := mustBegin(t, ds)
		defer func() { _ = tx.Rollback() }()
		img := &Image{PersonID: "1", Data: []byte{0x89}}
		require.NoError(t, tx.AddImage(ctx, img))

		got, err := tx.GetImageByID(ctx, img.ID)
		require.NoError(t, err)
		require.NotNil(t, got, "pending image must be visible inside the transaction")
		assert.Equal(t, "1", got.PersonID)
	})
}

func mustBegin(t *testing.T, ds DatabaseService) Transaction {
	t.Helper()
	tx, err := ds.Begin(context.Background())
	require.NoError(t, err)
	return tx
}

func seed(t *testing.T, ds DatabaseService, entities ...any) {
	t.Helper()
	ctx := context.Background()
	tx := mustBegin(t, ds)
	for _, e := range entities {
		switch v := e.(type) {
		case *Person:
			require.NoError(t, tx.SeedPerson(ctx, v))
		case *Image:
			require.NoError(t, tx.SeedImage(ctx, v))
		default:
			t.Fatalf("cannot seed %T", e)
		}
	}
	require.NoError(t, tx.Commit())
}
