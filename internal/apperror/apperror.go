// Package apperror defines the failure kinds surfaced to users of the QR form.
package apperror

import (
	"github.com/pkg/errors"
)

// Error codes, used in logs.
const (
	CodeEmptyPayload = "QR001"
	CodeEncoding     = "QR002"
	CodeImageDecode  = "QR003"
	CodeExportNoOp   = "QR004"
	CodeUnknown      = "QR500"
)

// User-facing notification texts.
const (
	MsgEmptyPayload  = "Please enter text or URL"
	MsgEncoding      = "Failed to generate QR code"
	MsgImageDecode   = "Could not read the logo image"
	MsgExportSuccess = "QR code downloaded successfully!"
	TitleError       = "Error"
	TitleSuccess     = "Success"
)

// Kind is a user-visible class of failure.
type Kind struct {
	Code    string
	Message string
	// Silent kinds are never shown to the user.
	Silent bool
}

func (k *Kind) Error() string { return k.Message }

var (
	// ErrEmptyPayload is returned when generation is requested without text.
	ErrEmptyPayload = &Kind{Code: CodeEmptyPayload, Message: MsgEmptyPayload}
	// ErrEncoding covers any failure of the encoder or compositor.
	ErrEncoding = &Kind{Code: CodeEncoding, Message: MsgEncoding}
	// ErrImageDecode is returned when a logo could not be decoded.
	ErrImageDecode = &Kind{Code: CodeImageDecode, Message: MsgImageDecode}
	// ErrExportNoOp is returned when a download is requested before anything was generated.
	ErrExportNoOp = &Kind{Code: CodeExportNoOp, Message: "nothing to export", Silent: true}
)

var kinds = []*Kind{ErrEmptyPayload, ErrEncoding, ErrImageDecode, ErrExportNoOp}

type wrapped struct {
	kind  *Kind
	cause error
}

func (w *wrapped) Error() string {
	if w.cause == nil {
		return w.kind.Message
	}
	return w.kind.Message + ": " + w.cause.Error()
}

func (w *wrapped) Is(target error) bool { return target == w.kind }

func (w *wrapped) Unwrap() error { return w.cause }

// Wrap tags cause with kind. The result matches kind under errors.Is and keeps
// cause reachable through Unwrap.
func Wrap(kind *Kind, cause error) error {
	if cause == nil {
		return kind
	}
	return errors.WithStack(&wrapped{kind: kind, cause: cause})
}

// Wrapf is Wrap with a formatted cause.
func Wrapf(kind *Kind, format string, args ...interface{}) error {
	return Wrap(kind, errors.Errorf(format, args...))
}

// KindOf returns the Kind carried by err, or nil if err carries none.
func KindOf(err error) *Kind {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Code returns the log code for err.
func Code(err error) string {
	if k := KindOf(err); k != nil {
		return k.Code
	}
	return CodeUnknown
}

// Message maps err to the single notification shown to the user. Errors of
// unknown kind are reported as generation failures.
func Message(err error) string {
	if k := KindOf(err); k != nil {
		return k.Message
	}
	return MsgEncoding
}

// IsSilent reports whether err should be swallowed at the UI boundary.
func IsSilent(err error) bool {
	k := KindOf(err)
	return k != nil && k.Silent
}
