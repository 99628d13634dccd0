package identifiers

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
)

// Kind represents which identifier scheme a value matched.
type Kind string

const (
	// KindStructured is the current scheme: ch-<region>-<seq>, e.g. ch-on-001.
	KindStructured Kind = "structured"
	// KindLegacy covers slug identifiers created before the structured scheme.
	KindLegacy  Kind = "legacy"
	KindInvalid Kind = ""
)

const (
	MinLength = 3
	MaxLength = 36

	// ChapterIDFormat describes the accepted chapter identifier formats for
	// error messages.
	ChapterIDFormat = "ch-<2-letter region>-<3-digit sequence> or 3-36 characters of letters, digits, '_' and '-'"
	// IDFormat describes the accepted format for other identifiers.
	IDFormat = "3-36 characters of letters, digits, '_' and '-'"
)

var (
	structuredChapterIDRegex = regexp.MustCompile(`^ch-[a-z]{2}-[0-9]{3}$`)
	slugIDRegex              = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,36}$`)
)

var (
	ErrEmpty         = errors.New("identifier is empty")
	ErrInvalidFormat = errors.New("identifier has an invalid format")
)

// ClassifyChapterID reports which scheme the chapter identifier matches. Both
// schemes are accepted so that legacy identifiers keep working alongside the
// structured ones.
func ClassifyChapterID(id string) Kind {
	if structuredChapterIDRegex.MatchString(id) {
		return KindStructured
	}
	if slugIDRegex.MatchString(id) {
		return KindLegacy
	}
	return KindInvalid
}

// ValidateChapterID returns an error if id isn't an acceptable chapter
// identifier.
func ValidateChapterID(id string) error {
	if id == "" {
		return ErrEmpty
	}
	if ClassifyChapterID(id) == KindInvalid {
		return ErrInvalidFormat
	}
	return nil
}

// ValidateID checks identifiers of sections, images and other records.
func ValidateID(id string) error {
	if id == "" {
		return ErrEmpty
	}
	if !slugIDRegex.MatchString(id) {
		return ErrInvalidFormat
	}
	return nil
}

// IsValidID is the boolean form of ValidateID.
func IsValidID(id string) bool {
	return ValidateID(id) == nil
}

// SuggestChapterID derives a legacy-scheme identifier from a title. The result
// always passes ValidateChapterID, though it may collide with an existing one.
func SuggestChapterID(title string) string {
	id := slug.Make(strings.TrimSpace(title))
	if len(id) > MaxLength {
		id = strings.TrimRight(id[:MaxLength], "-")
	}
	for len(id) < MinLength {
		id += "-x"
		id = strings.TrimLeft(id, "-")
	}
	return id
}
