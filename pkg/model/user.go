package model

import "strings"

// User is the locally recognized person. There are no credentials: a User
// exists because somebody typed an email address.
type User struct {
	Name  string `json:"name" firestore:"name"`
	Email string `json:"email" firestore:"email"`
}

// NewUser builds a user, deriving the display name from the local part of
// the email when name is blank.
func NewUser(email, name string) *User {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return &User{Name: name, Email: email}
}

// Namespace selects one favorites collection.
type Namespace string

// GuestNamespace holds favorites saved while nobody is signed in.
const GuestNamespace Namespace = "guest"

// NamespaceOf maps a user to its favorites namespace. A nil user is a guest.
func NamespaceOf(user *User) Namespace {
	if user == nil {
		return GuestNamespace
	}
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" {
		return GuestNamespace
	}
	return Namespace(email)
}

func (x Namespace) String() string { return string(x) }
