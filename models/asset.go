package models

import (
	"fmt"

	"github.com/NeboLoop/resist-go-sdk/wire"
)

// Asset is an uploaded file: an avatar, attachment, icon, banner or
// background.
type Asset struct {
	ID          string
	Tag         string
	Size        int64
	Filename    string
	ContentType string
	Kind        string // metadata type: File, Text, Audio, Image, Video
	Width       int
	Height      int
}

// NewAsset converts wire asset data.
func NewAsset(d wire.AssetData) *Asset {
	return &Asset{
		ID:          d.ID,
		Tag:         d.Tag,
		Size:        d.Size,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Kind:        d.Metadata.Type,
		Width:       d.Metadata.Width,
		Height:      d.Metadata.Height,
	}
}

// IsMedia reports whether the asset is an image or a video.
func (a *Asset) IsMedia() bool {
	return a.Kind == "Image" || a.Kind == "Video"
}

// URL returns the file server address of the asset under base.
func (a *Asset) URL(base string) string {
	return fmt.Sprintf("%s/%s/%s", base, a.Tag, a.ID)
}
