package domain

import (
	"strconv"
	"strings"
)

// Canonical user field names. Users are field-name -> value records rather
// than fixed structs: the set of columns on the users table is installation
// specific and the tag manager registers one rendering tag per discovered
// field.
const (
	FieldID            = "id_user"
	FieldUsername      = "username"
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldScreenName    = "screen_name"
	FieldFirstname     = "firstname"
	FieldLastname      = "lastname"
	FieldJoinDate      = "join_date"
	FieldActivationKey = "activation_key"
)

// Group field names. "slug" renders as the group's name and "group_name" as
// its title; the naming mismatch comes from the database schema and is kept.
const (
	GroupFieldSlug  = "slug"
	GroupFieldName  = "group_name"
	GroupFieldLevel = "level"
)

// MinLoginLevel is the group access tier required to log in.
const MinLoginLevel = 100

// Field describes one column of the users or groups table.
type Field struct {
	Name string
	Type string
}

// IsDate reports whether the field holds a date and should be rendered with
// the date formatter.
func (f Field) IsDate() bool {
	switch f.Type {
	case "date", "datetime", "timestamp":
		return true
	}
	return false
}

// Group is the access group embedded in every user record.
type Group struct {
	Fields map[string]string
}

func (g Group) Get(name string) string { return g.Fields[name] }

// Level returns the group's access tier, 0 when unset or malformed.
func (g Group) Level() int {
	n, err := strconv.Atoi(g.Fields[GroupFieldLevel])
	if err != nil {
		return 0
	}
	return n
}

// User is one account record. Fields holds the raw column values; Group is
// the user's access group. The password field is stored encrypted and only
// decrypted transiently for notification emails.
type User struct {
	Fields map[string]string
	Group  Group
}

// NewUser returns a user with an allocated field map.
func NewUser() User {
	return User{Fields: map[string]string{}, Group: Group{Fields: map[string]string{}}}
}

func (u User) Get(name string) string { return u.Fields[name] }

// Set assigns a field value, allocating the map on first use so that the
// zero value stays usable.
func (u *User) Set(name, value string) {
	if u.Fields == nil {
		u.Fields = map[string]string{}
	}
	u.Fields[name] = value
}

func (u User) ID() string       { return u.Fields[FieldID] }
func (u User) Username() string { return u.Fields[FieldUsername] }
func (u User) Email() string    { return u.Fields[FieldEmail] }

// IsZero reports whether the record carries no data at all.
func (u User) IsZero() bool { return len(u.Fields) == 0 }

// DisplayName prefers the screen name and falls back to
// "firstname lastname" when it is unset or empty.
func (u User) DisplayName() string {
	if v := u.Fields[FieldScreenName]; v != "" {
		return v
	}
	return strings.TrimSpace(u.Fields[FieldFirstname] + " " + u.Fields[FieldLastname])
}

// Clone returns a deep copy so callers can attach transient values (the
// one-time clear password, the activation key) without touching shared state.
func (u User) Clone() User {
	c := NewUser()
	for k, v := range u.Fields {
		c.Fields[k] = v
	}
	for k, v := range u.Group.Fields {
		c.Group.Fields[k] = v
	}
	return c
}
