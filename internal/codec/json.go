// Package codec holds the JSON configuration shared by storage and HTTP.
package codec

import "github.com/bytedance/sonic"

// JSON encodes with sorted map keys and renders nil slices and maps as
// empty ones.
var JSON = sonic.Config{
	EscapeHTML:       false,
	SortMapKeys:      true,
	CompactMarshaler: true,
	NoNullSliceOrMap: true,
	UseNumber:        true,
}.Froze()
