package bulletin

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSectionNotFound indicates the document does not contain the expected
// section heading. This is a normal condition for months that have not been
// published yet, or a signal that the document format changed.
var ErrSectionNotFound = errors.New("section not found")

// LocateSection returns the document text starting immediately after the
// first occurrence of heading. The heading is matched verbatim.
func LocateSection(documentText, heading string) (string, error) {
	idx := strings.Index(documentText, heading)
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrSectionNotFound, heading)
	}
	return documentText[idx+len(heading):], nil
}
