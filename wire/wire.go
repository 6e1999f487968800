// Package wire defines the JSON payload types exchanged with the chat
// service, over the gateway socket and the REST API.
package wire

import (
	"encoding/json"
	"errors"
)

// --------------------------------------------------------------------------
// Client -> server frames
// --------------------------------------------------------------------------

// Authenticate is the first frame sent after the socket opens.
type Authenticate struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Ping keeps the socket alive; the server answers with Pong carrying Data.
type Ping struct {
	Type string `json:"type"`
	Data int64  `json:"data"`
}

// Typing is BeginTyping / EndTyping.
type Typing struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// --------------------------------------------------------------------------
// Server -> client frames
// --------------------------------------------------------------------------

// Error is sent when authentication or a request fails.
type Error struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Authenticated confirms the token.
type Authenticated struct {
	Type string `json:"type"`
}

// Pong answers Ping.
type Pong struct {
	Type string `json:"type"`
	Data int64  `json:"data"`
}

// Ready carries the initial state after authentication.
type Ready struct {
	Type     string        `json:"type"`
	Users    []UserData    `json:"users"`
	Servers  []ServerData  `json:"servers"`
	Channels []ChannelData `json:"channels"`
}

// MessageDelete is sent when a message is removed.
type MessageDelete struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Channel string `json:"channel"`
}

// ChannelTyping is ChannelStartTyping / ChannelStopTyping.
type ChannelTyping struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	User string `json:"user"`
}

// --------------------------------------------------------------------------
// Assets
// --------------------------------------------------------------------------

// AssetMetadata describes an uploaded file. Width and Height are set for
// Image and Video.
type AssetMetadata struct {
	Type   string `json:"type"` // "File", "Text", "Audio", "Image", "Video"
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// AssetData is an uploaded file: avatar, attachment, icon, banner, background.
type AssetData struct {
	ID          string        `json:"_id"`
	Tag         string        `json:"tag"`
	Size        int64         `json:"size"`
	Filename    string        `json:"filename"`
	Metadata    AssetMetadata `json:"metadata"`
	ContentType string        `json:"content_type"`
}

// --------------------------------------------------------------------------
// Users
// --------------------------------------------------------------------------

// RelationData is one entry of a user's relations.
type RelationData struct {
	ID     string `json:"_id"`
	Status string `json:"status"`
}

// StatusData is a user's presence.
type StatusData struct {
	Text     string `json:"text,omitempty"`
	Presence string `json:"presence,omitempty"` // "Busy", "Idle", "Invisible", "Online"
}

// BotData is present on bot accounts.
type BotData struct {
	Owner string `json:"owner"`
}

// UserData is a user object.
type UserData struct {
	ID           string         `json:"_id"`
	Username     string         `json:"username"`
	Avatar       *AssetData     `json:"avatar,omitempty"`
	Relations    []RelationData `json:"relations,omitempty"`
	Badges       uint32         `json:"badges,omitempty"`
	Status       *StatusData    `json:"status,omitempty"`
	Relationship string         `json:"relationship,omitempty"`
	Online       bool           `json:"online,omitempty"`
	Flags        uint32         `json:"flags,omitempty"`
	Bot          *BotData       `json:"bot,omitempty"`
}

// --------------------------------------------------------------------------
// Channels and servers
// --------------------------------------------------------------------------

// ChannelData covers every channel_type: SavedMessages, DirectMessages,
// Group, TextChannel, VoiceChannel. Fields absent for a type stay zero.
type ChannelData struct {
	ID                 string     `json:"_id"`
	ChannelType        string     `json:"channel_type"`
	User               string     `json:"user,omitempty"`
	Active             bool       `json:"active,omitempty"`
	Recipients         []string   `json:"recipients,omitempty"`
	Server             string     `json:"server,omitempty"`
	Name               string     `json:"name,omitempty"`
	Owner              string     `json:"owner,omitempty"`
	Description        string     `json:"description,omitempty"`
	Icon               *AssetData `json:"icon,omitempty"`
	LastMessageID      string     `json:"last_message_id,omitempty"`
	Permissions        int64      `json:"permissions,omitempty"`
	DefaultPermissions int64      `json:"default_permissions,omitempty"`
	NSFW               bool       `json:"nsfw,omitempty"`
}

// CategoryData groups channels in a server.
type CategoryData struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Channels []string `json:"channels"`
}

// RoleData is a server role.
type RoleData struct {
	Name        string `json:"name"`
	Permissions any    `json:"permissions"`
	Colour      string `json:"colour,omitempty"`
	Hoist       bool   `json:"hoist,omitempty"`
	Rank        int    `json:"rank,omitempty"`
}

// ServerData is a server object.
type ServerData struct {
	ID           string              `json:"_id"`
	Owner        string              `json:"owner"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	Channels     []string            `json:"channels"`
	Categories   []CategoryData      `json:"categories,omitempty"`
	Roles        map[string]RoleData `json:"roles,omitempty"`
	Icon         *AssetData          `json:"icon,omitempty"`
	Banner       *AssetData          `json:"banner,omitempty"`
	NSFW         bool                `json:"nsfw,omitempty"`
	Flags        uint32              `json:"flags,omitempty"`
	Analytics    bool                `json:"analytics,omitempty"`
	Discoverable bool                `json:"discoverable,omitempty"`
}

// --------------------------------------------------------------------------
// Messages
// --------------------------------------------------------------------------

// SystemContent is the object form of a message's content, sent by the
// system user. Which fields are set depends on Type.
type SystemContent struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"` // "text"
	ID      string `json:"id,omitempty"`      // user_* actions
	By      string `json:"by,omitempty"`
	Name    string `json:"name,omitempty"` // channel_renamed
}

// Content is a message's content: plain text or a system object.
type Content struct {
	Text   string
	System *SystemContent
}

// UnmarshalJSON accepts either a JSON string or a system content object.
func (c *Content) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		c.System = nil
		return json.Unmarshal(data, &c.Text)
	}
	var sys SystemContent
	if err := json.Unmarshal(data, &sys); err != nil {
		return err
	}
	if sys.Type == "" {
		return errors.New("wire: system content without type")
	}
	c.Text = ""
	c.System = &sys
	return nil
}

// MarshalJSON writes the form that was decoded.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.System != nil {
		return json.Marshal(c.System)
	}
	return json.Marshal(c.Text)
}

// EditedData is the Mongo-style timestamp wrapper on edited messages.
type EditedData struct {
	Date string `json:"$date"`
}

// Masquerade overrides the displayed author.
type Masquerade struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// EmbedSpecial is third-party metadata on website embeds.
type EmbedSpecial struct {
	Type        string `json:"type"` // "YouTube", "Twitch", "Spotify", "Soundcloud", "Bandcamp"
	ID          string `json:"id,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// EmbedMedia is an image or video inside an embed.
type EmbedMedia struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   string `json:"size,omitempty"` // images: "Large", "Preview"
}

// EmbedData covers the Website, Image, Text and None embed types.
type EmbedData struct {
	Type        string        `json:"type"`
	URL         string        `json:"url,omitempty"`
	Special     *EmbedSpecial `json:"special,omitempty"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Image       *EmbedMedia   `json:"image,omitempty"`
	Video       *EmbedMedia   `json:"video,omitempty"`
	SiteName    string        `json:"site_name,omitempty"`
	IconURL     string        `json:"icon_url,omitempty"`
	Colour      string        `json:"colour,omitempty"`
	Media       *AssetData    `json:"media,omitempty"`

	// Image embeds carry the media fields at top level.
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Size   string `json:"size,omitempty"`
}

// MessageData is a message object, also the body of Message frames.
type MessageData struct {
	ID          string      `json:"_id"`
	Nonce       string      `json:"nonce,omitempty"`
	Channel     string      `json:"channel"`
	Author      string      `json:"author"`
	Content     Content     `json:"content"`
	Attachments []AssetData `json:"attachments,omitempty"`
	Edited      *EditedData `json:"edited,omitempty"`
	Embeds      []EmbedData `json:"embeds,omitempty"`
	Mentions    []string    `json:"mentions,omitempty"`
	Replies     []string    `json:"replies,omitempty"`
	Masquerade  *Masquerade `json:"masquerade,omitempty"`
}

// SendMessage is the body of POST /channels/{id}/messages.
type SendMessage struct {
	Content     string      `json:"content"`
	Nonce       string      `json:"nonce,omitempty"`
	Attachments []string    `json:"attachments,omitempty"`
	Replies     []Reply     `json:"replies,omitempty"`
	Embeds      []EmbedData `json:"embeds,omitempty"`
	Masquerade  *Masquerade `json:"masquerade,omitempty"`
}

// Reply references a message being replied to.
type Reply struct {
	ID      string `json:"id"`
	Mention bool   `json:"mention"`
}
