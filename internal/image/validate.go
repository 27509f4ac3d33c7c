package image

import "fmt"

// allowedFormats is the fixed allow-list of declared content types accepted
// for avatar uploads. Matching is exact and case-sensitive.
var allowedFormats = []string{"image/jpeg", "image/png", "image/gif"}

// ValidateFormat judges a declared content type and payload length. It is
// pure: no I/O, no payload inspection. The declared type is trusted as-is;
// magic-number sniffing is deliberately not performed here.
func ValidateFormat(contentType string, size int64) error {
	if size <= 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidFormat)
	}
	for _, f := range allowedFormats {
		if contentType == f {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not one of jpeg/png/gif", ErrInvalidFormat, contentType)
}
