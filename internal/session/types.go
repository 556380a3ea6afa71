package session

import (
	"fmt"
	"strings"
)

// NotebookExt is the only file suffix the converter accepts.
const NotebookExt = ".ipynb"

const (
	msgInvalidFile    = "Please upload a valid .ipynb file"
	msgGenericFailure = "An error occurred"
)

// Format selects the conversion endpoint and the extension of the saved artifact.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported output formats in display order.
var Formats = []Format{FormatHTML, FormatPDF}

// ParseFormat maps user input onto a Format.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatHTML:
		return FormatHTML, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want html or pdf)", value)
	}
}

// Label is the upper-cased form shown on buttons.
func (f Format) Label() string {
	return strings.ToUpper(string(f))
}

// ConversionStatus tracks the lifecycle of one conversion attempt.
type ConversionStatus string

const (
	StatusIdle      ConversionStatus = "idle"
	StatusUploading ConversionStatus = "uploading"
	StatusSuccess   ConversionStatus = "success"
	StatusError     ConversionStatus = "error"
)

// BackendStatus tracks availability of the remote conversion service.
type BackendStatus string

const (
	BackendUnknown BackendStatus = "unknown"
	BackendWarming BackendStatus = "warming"
	BackendReady   BackendStatus = "ready"
	BackendError   BackendStatus = "error"
)

// File references one user-chosen payload on disk.
type File struct {
	Name string
	Size int64
	Path string
}

// IsNotebook reports whether the name carries the notebook suffix. The check
// is case-sensitive.
func (f File) IsNotebook() bool {
	return strings.HasSuffix(f.Name, NotebookExt)
}

// OutputName replaces the notebook suffix with the format extension.
func OutputName(name string, format Format) string {
	return strings.TrimSuffix(name, NotebookExt) + "." + string(format)
}

// SizeLabel renders the size in kilobytes with one decimal place.
func (f File) SizeLabel() string {
	return fmt.Sprintf("%.1f KB", float64(f.Size)/1024)
}
