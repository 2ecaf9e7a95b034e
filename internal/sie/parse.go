package sie

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultMaxInputBytes bounds how much of an uploaded file the parser will
// accept. SIE exports for a single fiscal year are typically well under a
// megabyte; anything larger than this is rejected before parsing.
const DefaultMaxInputBytes = 10 << 20

// ErrUnsupportedFormat is returned for file extensions and root elements that
// are not a recognized SIE dialect.
var ErrUnsupportedFormat = errors.New("unsupported SIE format")

// ErrTooLarge is returned when the input exceeds the parser's size bound.
var ErrTooLarge = errors.New("input exceeds maximum size")

// ErrTimeout is returned when the parse deadline expires mid-document.
var ErrTimeout = errors.New("parse deadline exceeded")

// Parser decodes SIE documents. The zero value uses DefaultMaxInputBytes.
type Parser struct {
	MaxInputBytes int
}

// NewParser returns a parser with the given size bound, or the default bound
// when maxBytes is not positive.
func NewParser(maxBytes int) *Parser {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}
	return &Parser{MaxInputBytes: maxBytes}
}

// FormatForFilename maps a file extension hint onto a SIE dialect.
// ".se" and ".si" are SIE4 flat files, ".sie" is SIE5 XML.
func FormatForFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".se", ".si":
		return FormatSIE4, nil
	case ".sie":
		return FormatSIE5, nil
	default:
		return "", fmt.Errorf("%w: unrecognized extension on %q", ErrUnsupportedFormat, filename)
	}
}

// Parse decodes raw into a ParsedLedgerImport, choosing the SIE4 or SIE5
// branch from the filename extension. Oversize input, an expired context and
// an unrecognized extension fail closed with an error; every other problem
// (malformed quoting, missing accounts, bad dates) is collected into the
// result's issue list so the caller can render all diagnostics at once.
func (p *Parser) Parse(ctx context.Context, raw []byte, filename string) (*ParsedLedgerImport, error) {
	format, err := FormatForFilename(filename)
	if err != nil {
		return nil, err
	}

	maxBytes := p.MaxInputBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}
	if len(raw) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(raw), maxBytes)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var doc *ParsedLedgerImport
	switch format {
	case FormatSIE4:
		doc, err = parseSIE4(ctx, raw)
	case FormatSIE5:
		doc, err = parseSIE5(ctx, raw)
	}
	if err != nil {
		return nil, err
	}

	if len(doc.Accounts) == 0 {
		doc.addIssue(0, "no accounts found in document")
	}
	return doc, nil
}

// checkDeadline converts a cancelled context into ErrTimeout. Called
// periodically inside the scan loops so attacker controlled input cannot make
// an upload request hang.
func checkDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return nil
}
