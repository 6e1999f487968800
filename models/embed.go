package models

import "github.com/NeboLoop/resist-go-sdk/wire"

// EmbedKind is the type of an embed.
type EmbedKind string

const (
	EmbedWebsite EmbedKind = "Website"
	EmbedImage   EmbedKind = "Image"
	EmbedText    EmbedKind = "Text"
	EmbedNone    EmbedKind = "None"
)

// Media is an image or a video shown inside an embed.
type Media struct {
	URL    string
	Width  int
	Height int
	Size   string
}

// Embed is a rich preview attached to a message.
type Embed struct {
	Kind        EmbedKind
	URL         string
	Title       string
	Description string
	SiteName    string
	IconURL     string
	Colour      string
	Special     *wire.EmbedSpecial
	Image       *Media
	Video       *Media
	Media       *Asset
}

// NewEmbed converts wire embed data. Image embeds carry their media at top
// level; it is exposed through Image like website previews.
func NewEmbed(d wire.EmbedData) *Embed {
	e := &Embed{
		Kind:        EmbedKind(d.Type),
		URL:         d.URL,
		Title:       d.Title,
		Description: d.Description,
		SiteName:    d.SiteName,
		IconURL:     d.IconURL,
		Colour:      d.Colour,
		Special:     d.Special,
		Image:       newMedia(d.Image),
		Video:       newMedia(d.Video),
	}
	if d.Media != nil {
		e.Media = NewAsset(*d.Media)
	}
	if e.Kind == EmbedImage && e.Image == nil {
		e.Image = &Media{URL: d.URL, Width: d.Width, Height: d.Height, Size: d.Size}
	}
	return e
}

func newMedia(m *wire.EmbedMedia) *Media {
	if m == nil {
		return nil
	}
	return &Media{URL: m.URL, Width: m.Width, Height: m.Height, Size: m.Size}
}
