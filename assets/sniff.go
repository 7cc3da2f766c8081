package assets

import (
	"bytes"
	"image"
	"path"
	"strings"

	// Extra codecs so DecodeConfig understands the formats Word
	// documents commonly embed beyond the stdlib set.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// magicSignature maps a byte prefix to a MIME type.
type magicSignature struct {
	prefix      []byte
	contentType string
}

var magicSignatures = []magicSignature{
	{[]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
	{[]byte{0xFF, 0xD8, 0xFF}, "image/jpeg"},
	{[]byte("GIF87a"), "image/gif"},
	{[]byte("GIF89a"), "image/gif"},
	{[]byte("BM"), "image/bmp"},
	{[]byte{'I', 'I', 0x2A, 0x00}, "image/tiff"},
	{[]byte{'M', 'M', 0x00, 0x2A}, "image/tiff"},
}

var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
	".emf":  "image/x-emf",
	".wmf":  "image/x-wmf",
}

// Detect derives a content type from the image byte signature, then
// the decodable image header, then the filename extension. When
// nothing matches it falls back to the generic binary type.
func Detect(data []byte, filename string) string {
	for _, sig := range magicSignatures {
		if bytes.HasPrefix(data, sig.prefix) {
			return sig.contentType
		}
	}
	if len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "image/webp"
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		if t, ok := extensionTypes["."+format]; ok {
			return t
		}
	}
	if t, ok := extensionTypes[strings.ToLower(path.Ext(filename))]; ok {
		return t
	}
	return "application/octet-stream"
}

// ExtensionForType returns the conventional file extension for an
// image MIME type, defaulting to .png.
func ExtensionForType(contentType string) string {
	for ext, t := range extensionTypes {
		if t == contentType && ext != ".jpeg" && ext != ".tif" {
			return ext
		}
	}
	return ".png"
}

// Dimensions decodes just the image header and returns its pixel
// size. The second return is false when the format is not decodable.
func Dimensions(data []byte) (int, int, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
