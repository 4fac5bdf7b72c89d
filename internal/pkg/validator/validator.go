package validator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// UUID regex: any RFC 4122 version, lowercase-normalized.
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-7][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// UUID validation
func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(strings.ToLower(uuid))
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidDateTime checks if a string is a valid ISO8601 timestamp.
// Accepts formats like: "2024-01-15T10:30:00Z" or "2024-01-15T10:30:00+07:00"
func IsValidDateTime(dateTimeStr string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, dateTimeStr)
	return t, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

const maxUploadSize = 10 << 20 // 10MB

var allowedImageExts = []string{".jpg", ".jpeg", ".png"}

// CheckImageUpload validates an evidence-photo upload by name and size.
// Returns an empty string when the upload is acceptable.
func CheckImageUpload(filename string, size int64) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !IsInSlice(ext, allowedImageExts) {
		return "invalid file type: only jpg, jpeg, png allowed"
	}
	if size > maxUploadSize {
		return "file size must not exceed 10MB"
	}
	return ""
}

var allowedDocumentExts = []string{".jpg", ".jpeg", ".png", ".pdf"}

// CheckDocumentUpload validates a supporting-document upload by name and size.
// Returns an empty string when the upload is acceptable.
func CheckDocumentUpload(filename string, size int64) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !IsInSlice(ext, allowedDocumentExts) {
		return fmt.Sprintf("invalid file type %s: only jpg, jpeg, png, pdf allowed", ext)
	}
	if size > maxUploadSize {
		return "file size must not exceed 10MB"
	}
	return ""
}
