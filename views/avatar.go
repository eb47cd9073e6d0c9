package views

import "unicode"

// Avatar background palette. Order matters: AvatarColor must stay stable
// for a given identifier across sessions.
var avatarPalette = []string{
	"#f44336",
	"#9c27b0",
	"#3f51b5",
	"#03a9f4",
	"#009688",
	"#8bc34a",
	"#ff9800",
	"#795548",
}

// AvatarColor derives a display color from an entity identifier with a
// rolling hash truncated to 16 bits, modulo the palette size.
func AvatarColor(id string) string {
	var h uint32
	for _, r := range id {
		h = h*31 + uint32(r)
		h &= 0xFFFF
	}
	return avatarPalette[int(h)%len(avatarPalette)]
}

// Initials returns up to two uppercase initials for the avatar badge.
func Initials(firstName, lastName string) string {
	initials := ""
	for _, name := range []string{firstName, lastName} {
		for _, r := range name {
			initials += string(unicode.ToUpper(r))
			break
		}
	}
	return initials
}
