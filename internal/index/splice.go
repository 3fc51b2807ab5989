package index

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultTargetFile is the Markdown file the index is spliced into.
const DefaultTargetFile = "CLAUDE.md"

// newFilePreamble heads a freshly created CLAUDE.md.
const newFilePreamble = `# CLAUDE.md

This file provides guidance to AI coding assistants working in this
repository.

## Docs Index

`

// appendHeading precedes the block when an existing file has no markers.
const appendHeading = "\n\n---\n\n## Docs Index\n\n"

// trailerRe matches the MCP-fallback comment line that may immediately
// follow the end marker. Splice absorbs it into the replaced range so
// stale trailers never accumulate.
var trailerRe = regexp.MustCompile(`^\n<!-- Library IDs for MCP fallback:[^\n]*-->`)

// SpliceResult reports what Splice did to the target file.
type SpliceResult struct {
	Created bool
	Updated bool
}

// Splice writes block into the Markdown file at path.
//
//   - Missing file: created with a fixed preamble plus the block.
//   - Both markers present in order: everything from BeginMarker through
//     EndMarker (plus a directly trailing MCP-fallback comment) is
//     replaced. Content outside that range is preserved byte-for-byte.
//   - Markers absent or out of order: the block is appended after a
//     horizontal rule and heading.
func Splice(path, block string) (SpliceResult, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return SpliceResult{}, fmt.Errorf("reading %s: %w", path, err)
		}
		content := newFilePreamble + block + "\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return SpliceResult{}, fmt.Errorf("writing %s: %w", path, err)
		}
		return SpliceResult{Created: true}, nil
	}

	content := spliceInto(string(existing), block)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return SpliceResult{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return SpliceResult{Updated: true}, nil
}

// spliceInto performs the replace-or-append on in-memory content.
// Split out so tests can pin byte-level behavior without the filesystem.
func spliceInto(existing, block string) string {
	begin := strings.Index(existing, BeginMarker)
	end := strings.Index(existing, EndMarker)

	if begin < 0 || end < 0 || end < begin {
		return existing + appendHeading + block + "\n"
	}

	regionEnd := end + len(EndMarker)
	if m := trailerRe.FindString(existing[regionEnd:]); m != "" {
		regionEnd += len(m)
	}
	return existing[:begin] + block + existing[regionEnd:]
}

// ExtractBlock returns the current index block from the file content,
// including an absorbed trailer comment, or "" when no well-ordered
// marker pair exists. Doctor uses this for drift reporting.
func ExtractBlock(content string) string {
	begin := strings.Index(content, BeginMarker)
	end := strings.Index(content, EndMarker)
	if begin < 0 || end < 0 || end < begin {
		return ""
	}
	regionEnd := end + len(EndMarker)
	if m := trailerRe.FindString(content[regionEnd:]); m != "" {
		regionEnd += len(m)
	}
	return content[begin:regionEnd]
}
