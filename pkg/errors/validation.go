package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// mavenIDRegex matches valid Maven groupId/artifactId tokens.
var mavenIDRegex = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// windowsDriveRegex matches a Windows drive prefix such as "C:".
var windowsDriveRegex = regexp.MustCompile(`^[A-Za-z]:`)

// ValidateMavenID validates a groupId or artifactId.
// Property references (${...}) are rejected: a coordinate given on the command
// line must be concrete.
func ValidateMavenID(kind, id string) error {
	if id == "" {
		return New(ErrCodeMalformedCoordinate, "%s cannot be empty", kind)
	}
	if len(id) > 256 {
		return New(ErrCodeMalformedCoordinate, "%s too long (max 256 characters)", kind)
	}
	if !mavenIDRegex.MatchString(id) {
		return New(ErrCodeMalformedCoordinate, "invalid %s: %q", kind, id)
	}
	return nil
}

// ValidateManifestFilename validates a POM filename for safety.
// It ensures the filename is a simple basename ending in .xml.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot contain path separators")
	}

	if !strings.HasSuffix(strings.ToLower(filename), ".xml") {
		return New(ErrCodeInvalidManifest, "manifest filename must end in .xml: %q", filename)
	}

	return nil
}

// ValidateRelativePath validates a <parent><relativePath> value.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (/, ~ or a Windows drive letter)
//
// Unlike a repository path, ".." segments are allowed: walking up is what
// relativePath is for. Containment is checked by the caller against the
// top-level directory.
func ValidateRelativePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "~") || windowsDriveRegex.MatchString(path) {
		return New(ErrCodeInvalidPath, "path must be relative: %q", path)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
