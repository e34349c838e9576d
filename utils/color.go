package utils

// Embed colors.
const (
	DefaultEmbedColor = 0x905530
	ErrorEmbedColor   = 0xff0000
)
