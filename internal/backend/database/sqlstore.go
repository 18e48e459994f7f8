package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// sqlDialect captures the differences between the SQL backends.
type sqlDialect struct {
	name     string
	numbered bool // $1, $2 ... instead of ?
	schema   []string
}

// rebind rewrites ? placeholders for dialects that use numbered parameters.
func (d sqlDialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

const (
	personColumns = "id, first_name, last_name, gender, age, interests, avatar_id, addr1, addr2, country, state, city, zip_code"
	imageColumns  = "id, person_id, data"
)

// SQLDatabase implements DatabaseService on top of database/sql.
type SQLDatabase struct {
	db               *sql.DB
	dialect          sqlDialect
	connectionString string
}

func (s *SQLDatabase) CreateDatabase(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s schema: %w", s.dialect.name, err)
		}
	}
	return nil
}

func (s *SQLDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLDatabase) DoesDatabaseExist() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLDatabase) Begin(ctx context.Context) (Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &sqlTransaction{tx: tx, dialect: s.dialect}, nil
}

func (s *SQLDatabase) GetPeople(ctx context.Context) ([]*Person, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+personColumns+" FROM people ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	people := make([]*Person, 0)
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, person)
	}
	return people, rows.Err()
}

func (s *SQLDatabase) GetPersonByID(ctx context.Context, id string) (*Person, error) {
	return getPersonByID(ctx, s.db, s.dialect, id)
}

func (s *SQLDatabase) GetImageByID(ctx context.Context, id string) (*Image, error) {
	return getImageByID(ctx, s.db, s.dialect, id)
}

func (s *SQLDatabase) CountPeople(ctx context.Context) (int, error) {
	return count(ctx, s.db, "people")
}

func (s *SQLDatabase) CountImages(ctx context.Context) (int, error) {
	return count(ctx, s.db, "images")
}

func count(ctx context.Context, db DBTX, table string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanPerson(row rowScanner) (*Person, error) {
	var p Person
	var gender, interests, avatarID, addr1, addr2, country, state, city, zip sql.NullString
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &gender, &p.Age, &interests, &avatarID,
		&addr1, &addr2, &country, &state, &city, &zip); err != nil {
		return nil, err
	}
	p.Gender = gender.String
	p.Interests = interests.String
	p.AvatarID = avatarID.String
	p.Addr1 = addr1.String
	p.Addr2 = addr2.String
	p.Country = country.String
	p.State = state.String
	p.City = city.String
	p.ZipCode = zip.String
	return &p, nil
}

func getPersonByID(ctx context.Context, db DBTX, d sqlDialect, id string) (*Person, error) {
	row := db.QueryRowContext(ctx, d.rebind("SELECT "+personColumns+" FROM people WHERE id = ?"), id)
	person, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return person, nil
}

func getImageByID(ctx context.Context, db DBTX, d sqlDialect, id string) (*Image, error) {
	row := db.QueryRowContext(ctx, d.rebind("SELECT "+imageColumns+" FROM images WHERE id = ?"), id)
	var img Image
	var personID sql.NullString
	if err := row.Scan(&img.ID, &personID, &img.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	img.PersonID = personID.String
	return &img, nil
}

func personArgs(p *Person) []any {
	return []any{
		p.FirstName, p.LastName, nullString(p.Gender), p.Age, nullString(p.Interests),
		nullString(p.AvatarID), nullString(p.Addr1), nullString(p.Addr2), nullString(p.Country),
		nullString(p.State), nullString(p.City), nullString(p.ZipCode),
	}
}

type sqlTransaction struct {
	tx      *sql.Tx
	dialect sqlDialect
}

func (t *sqlTransaction) GetPersonByID(ctx context.Context, id string) (*Person, error) {
	return getPersonByID(ctx, t.tx, t.dialect, id)
}

func (t *sqlTransaction) GetImageByID(ctx context.Context, id string) (*Image, error) {
	return getImageByID(ctx, t.tx, t.dialect, id)
}

func (t *sqlTransaction) AddPerson(ctx context.Context, person *Person) error {
	id, err := generateID()
	if err != nil {
		return err
	}
	person.ID = id
	return t.SeedPerson(ctx, person)
}

func (t *sqlTransaction) SeedPerson(ctx context.Context, person *Person) error {
	query := t.dialect.rebind("INSERT INTO people (" + personColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	args := append([]any{person.ID}, personArgs(person)...)
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert person %s: %w", person.ID, err)
	}
	return nil
}

func (t *sqlTransaction) AddImage(ctx context.Context, image *Image) error {
	id, err := generateID()
	if err != nil {
		return err
	}
	image.ID = id
	return t.SeedImage(ctx, image)
}

func (t *sqlTransaction) SeedImage(ctx context.Context, image *Image) error {
	query := t.dialect.rebind("INSERT INTO images (" + imageColumns + ") VALUES (?, ?, ?)")
	if _, err := t.tx.ExecContext(ctx, query, image.ID, nullString(image.PersonID), image.Data); err != nil {
		return fmt.Errorf("insert image %s: %w", image.ID, err)
	}
	return nil
}

func (t *sqlTransaction) UpdatePerson(ctx context.Context, person *Person) error {
	query := t.dialect.rebind(`UPDATE people SET first_name = ?, last_name = ?, gender = ?, age = ?,
		interests = ?, avatar_id = ?, addr1 = ?, addr2 = ?, country = ?, state = ?, city = ?, zip_code = ?
		WHERE id = ?`)
	args := append(personArgs(person), person.ID)
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update person %s: %w", person.ID, err)
	}
	return expectAffected(res, "person", person.ID)
}

func (t *sqlTransaction) UpdateImage(ctx context.Context, image *Image) error {
	query := t.dialect.rebind("UPDATE images SET person_id = ?, data = ? WHERE id = ?")
	res, err := t.tx.ExecContext(ctx, query, nullString(image.PersonID), image.Data, image.ID)
	if err != nil {
		return fmt.Errorf("update image %s: %w", image.ID, err)
	}
	return expectAffected(res, "image", image.ID)
}

func (t *sqlTransaction) RemovePerson(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, t.dialect.rebind("DELETE FROM people WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete person %s: %w", id, err)
	}
	return expectAffected(res, "person", id)
}

func (t *sqlTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTransaction) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
