package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jo-hoe/peoplesearch/internal/backend/database"
)

// recordingDB counts the writes and commits issued through its transactions.
type recordingDB struct {
	database.DatabaseService

	mu      sync.Mutex
	ops     []string
	commits int
}

func (r *recordingDB) Begin(ctx context.Context) (database.Transaction, error) {
	tx, err := r.DatabaseService.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &recordingTx{Transaction: tx, db: r}, nil
}

func (r *recordingDB) record(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

func (r *recordingDB) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
	r.commits = 0
}

func (r *recordingDB) snapshot() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...), r.commits
}

type recordingTx struct {
	database.Transaction
	db *recordingDB
}

func (t *recordingTx) AddPerson(ctx context.Context, p *database.Person) error {
	t.db.record("AddPerson")
	return t.Transaction.AddPerson(ctx, p)
}

func (t *recordingTx) AddImage(ctx context.Context, i *database.Image) error {
	t.db.record("AddImage")
	return t.Transaction.AddImage(ctx, i)
}

func (t *recordingTx) UpdatePerson(ctx context.Context, p *database.Person) error {
	t.db.record("UpdatePerson")
	return t.Transaction.UpdatePerson(ctx, p)
}

func (t *recordingTx) UpdateImage(ctx context.Context, i *database.Image) error {
	t.db.record("UpdateImage")
	return t.Transaction.UpdateImage(ctx, i)
}

func (t *recordingTx) RemovePerson(ctx context.Context, id string) error {
	t.db.record("RemovePerson")
	return t.Transaction.RemovePerson(ctx, id)
}

func (t *recordingTx) Commit() error {
	t.db.mu.Lock()
	t.db.commits++
	t.db.mu.Unlock()
	return t.Transaction.Commit()
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (o *countingObserver) ObserveAvatarWrite(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = map[string]int{}
	}
	o.outcomes[outcome]++
}

func (o *countingObserver) count(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomes[outcome]
}

// newTestService returns a service over a seeded in-memory SQLite database.
func newTestService(t *testing.T, opts ...Option) (*CoreService, *recordingDB) {
	t.Helper()

	ds, err := database.NewDatabase(context.Background(), database.TypeSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ds.Close() })

	rec := &recordingDB{DatabaseService: ds}
	service := NewCoreServiceWithDatabase(rec, opts...)
	require.NoError(t, service.SeedDefaults(context.Background()))
	rec.reset()
	return service, rec
}

// blankIDs are rejected as validation errors, never as not found.
var blankIDs = []string{"", " ", "\t", "\n", "\r", "\r\n", " \t\r\n"}

func requireNoWrites(t *testing.T, rec *recordingDB) {
	t.Helper()
	ops, commits := rec.snapshot()
	require.Empty(t, ops, "expected no store writes")
	require.Zero(t, commits, "expected no commit")
}
