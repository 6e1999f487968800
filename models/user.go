package models

import (
	"context"
	"net/http"

	"github.com/NeboLoop/resist-go-sdk/wire"
)

// Requester performs an authenticated REST call and decodes the response
// into dest. *resist.APIClient implements it.
type Requester interface {
	Request(ctx context.Context, method, path string, body, dest any) error
}

// Presence is a user's status.
type Presence struct {
	Text string
	Kind string // "Busy", "Idle", "Invisible", "Online"
}

// Relationship is the relation between the current user and another one.
type Relationship struct {
	ID     string
	Status string
}

// User is a user account, human or bot.
type User struct {
	ID           string
	Username     string
	Avatar       *Asset
	Relations    []Relationship
	Badges       Badges
	Presence     *Presence
	Online       bool
	Bot          bool
	Owner        string // set for bots
	Flags        UserFlags
	Relationship string
}

// NewUser converts wire user data.
func NewUser(d wire.UserData) *User {
	u := &User{
		ID:           d.ID,
		Username:     d.Username,
		Badges:       Badges(d.Badges),
		Online:       d.Online,
		Flags:        UserFlags(d.Flags),
		Relationship: d.Relationship,
	}
	if d.Avatar != nil {
		u.Avatar = NewAsset(*d.Avatar)
	}
	for _, r := range d.Relations {
		u.Relations = append(u.Relations, Relationship{ID: r.ID, Status: r.Status})
	}
	if d.Status != nil {
		u.Presence = &Presence{Text: d.Status.Text, Kind: d.Status.Presence}
	}
	if d.Bot != nil {
		u.Bot = true
		u.Owner = d.Bot.Owner
	}
	return u
}

// FetchUser loads a user by ID.
func FetchUser(ctx context.Context, api Requester, id string) (*User, error) {
	var d wire.UserData
	if err := api.Request(ctx, http.MethodGet, "users/"+id, nil, &d); err != nil {
		return nil, err
	}
	return NewUser(d), nil
}
