package entity

// Identity is the authenticated caller resolved from either the session
// cookie or a bearer token. The identity provider owns the underlying user
// record; this is read-only projection.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

func (i *Identity) Valid() bool {
	return i != nil && i.UserID != "" && i.Email != ""
}
