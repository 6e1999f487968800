package models

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/NeboLoop/resist-go-sdk/ulid"
	"github.com/NeboLoop/resist-go-sdk/wire"
)

// Message is a message sent in a channel.
type Message struct {
	ID          string
	Nonce       string
	Channel     string
	Author      string
	Content     string
	System      *wire.SystemContent // nil for user messages
	Attachments []*Asset
	EditedAt    *time.Time
	Embeds      []*Embed
	Mentions    []string
	ReplyIDs    []string
	Replies     []*Message // the replied-to messages found in the cache
	Masquerade  *wire.Masquerade
}

// NewMessage converts wire message data. When cache is non-nil, replies
// are resolved from it and the new message is stored in it.
func NewMessage(d wire.MessageData, cache *Cache[string, *Message]) (*Message, error) {
	m := &Message{
		ID:         d.ID,
		Nonce:      d.Nonce,
		Channel:    d.Channel,
		Author:     d.Author,
		Mentions:   d.Mentions,
		ReplyIDs:   d.Replies,
		Masquerade: d.Masquerade,
	}

	if d.Content.System != nil {
		m.System = d.Content.System
		m.Content = systemText(d.Content.System)
	} else {
		m.Content = d.Content.Text
	}

	for _, a := range d.Attachments {
		m.Attachments = append(m.Attachments, NewAsset(a))
	}
	for _, e := range d.Embeds {
		m.Embeds = append(m.Embeds, NewEmbed(e))
	}

	if d.Edited != nil {
		at, err := time.Parse(time.RFC3339Nano, d.Edited.Date)
		if err != nil {
			return nil, fmt.Errorf("message %s: edited: %w", d.ID, err)
		}
		m.EditedAt = &at
	}

	if cache != nil {
		for _, id := range d.Replies {
			if r, ok := cache.Get(id); ok {
				m.Replies = append(m.Replies, r)
			}
		}
		cache.Set(m.ID, m)
	}
	return m, nil
}

// CreatedAt returns the time encoded in the message ID.
func (m *Message) CreatedAt() (time.Time, error) {
	return ulid.Timestamp(m.ID)
}

// IsSystem reports whether the message was sent by the system user.
func (m *Message) IsSystem() bool { return m.System != nil }

// systemText renders system content as a single line of text.
func systemText(s *wire.SystemContent) string {
	switch {
	case s.Type == "text":
		return s.Content
	case s.ID != "":
		return fmt.Sprintf("type:%s id:%s", s.Type, s.ID)
	default:
		return fmt.Sprintf("type:%s by:%s", s.Type, s.By)
	}
}

// FetchMessage loads a message from a channel.
func FetchMessage(ctx context.Context, api Requester, channel, id string, cache *Cache[string, *Message]) (*Message, error) {
	var d wire.MessageData
	if err := api.Request(ctx, http.MethodGet, "channels/"+channel+"/messages/"+id, nil, &d); err != nil {
		return nil, err
	}
	return NewMessage(d, cache)
}
