// Package models builds typed views over the payloads in package wire:
// users, messages, assets, embeds and their flag bitsets, plus a bounded
// cache used to resolve message replies.
package models
