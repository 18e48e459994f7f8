package database

// Person is a single entry of the people directory.
type Person struct {
	ID        string `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Gender    string `json:"gender,omitempty" db:"gender"`
	Age       int    `json:"age" db:"age"`
	Interests string `json:"interests,omitempty" db:"interests"`
	AvatarID  string `json:"avatarId,omitempty" db:"avatar_id"` // weak reference to Image.ID
	Addr1     string `json:"addr1,omitempty" db:"addr1"`
	Addr2     string `json:"addr2,omitempty" db:"addr2"`
	Country   string `json:"country,omitempty" db:"country"`
	State     string `json:"state,omitempty" db:"state"`
	City      string `json:"city,omitempty" db:"city"`
	ZipCode   string `json:"zipCode,omitempty" db:"zip_code"`
}

// CopyFrom overwrites every field except ID with the values of other.
func (p *Person) CopyFrom(other *Person) {
	if other == nil || other == p {
		return
	}
	id := p.ID
	*p = *other
	p.ID = id
}

// Image holds the raw bytes of an avatar.
type Image struct {
	ID       string `json:"id" db:"id"`
	PersonID string `json:"personId,omitempty" db:"person_id"` // weak reference to Person.ID
	Data     []byte `json:"data" db:"data"`
}
