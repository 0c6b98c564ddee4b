package trash

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// ErrorReason categorizes why moving a file to the Trash failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorFileInUse
	ErrorFileNotFound
	ErrorCrossVolume
	ErrorInvalidPath
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorFileInUse:
		return "File is in use"
	case ErrorFileNotFound:
		return "File not found"
	case ErrorCrossVolume:
		return "On a different volume"
	case ErrorInvalidPath:
		return "Invalid path"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

// TrashError represents a detailed trash failure
type TrashError struct {
	Path      string
	Reason    ErrorReason
	Original  error
	Retryable bool
}

// Error implements the error interface
func (e *TrashError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

// UserMessage returns a user-friendly error message
func (e *TrashError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		return fmt.Sprintf("⚠️  Permission denied: %s", e.Path)
	case ErrorFileInUse:
		return fmt.Sprintf("⚠️  File is being used: %s (close the application and try again)", e.Path)
	case ErrorFileNotFound:
		return fmt.Sprintf("ℹ️  Already gone: %s", e.Path)
	case ErrorCrossVolume:
		return fmt.Sprintf("⚠️  On a different volume: %s (drag it to the Trash in Finder)", e.Path)
	case ErrorInvalidPath:
		return fmt.Sprintf("❌ Invalid or unsafe path: %s", e.Path)
	default:
		return fmt.Sprintf("❌ Error trashing %s: %v", e.Path, e.Original)
	}
}

// CategorizeError analyzes an error and returns a categorized TrashError
func CategorizeError(path string, err error) *TrashError {
	if err == nil {
		return nil
	}

	trashErr := &TrashError{
		Path:     path,
		Original: err,
		Reason:   ErrorUnknown,
	}

	if os.IsNotExist(err) {
		trashErr.Reason = ErrorFileNotFound
		return trashErr
	}

	if os.IsPermission(err) {
		trashErr.Reason = ErrorPermissionDenied
		return trashErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			trashErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			trashErr.Reason = ErrorFileInUse
			trashErr.Retryable = true
		case syscall.ENOENT:
			trashErr.Reason = ErrorFileNotFound
		case syscall.EXDEV:
			trashErr.Reason = ErrorCrossVolume
		default:
			trashErr.Reason = ErrorUnknown
		}
		return trashErr
	}

	return trashErr
}

// GroupErrors groups trash errors by reason
func GroupErrors(errs []*TrashError) map[ErrorReason][]*TrashError {
	grouped := make(map[ErrorReason][]*TrashError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a user-friendly summary of errors
func FormatErrorSummary(errs []*TrashError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrors(errs)
	summary := "\n⚠️  Issues encountered:\n"

	if perms, ok := grouped[ErrorPermissionDenied]; ok {
		summary += fmt.Sprintf("   ├─ Permission denied: %d files\n", len(perms))
	}
	if busy, ok := grouped[ErrorFileInUse]; ok {
		summary += fmt.Sprintf("   ├─ File in use: %d files\n", len(busy))
		summary += "   │  └─ Tip: Close applications and retry\n"
	}
	if notFound, ok := grouped[ErrorFileNotFound]; ok {
		summary += fmt.Sprintf("   ├─ Already gone: %d files\n", len(notFound))
	}
	if xdev, ok := grouped[ErrorCrossVolume]; ok {
		summary += fmt.Sprintf("   ├─ On another volume: %d files\n", len(xdev))
		summary += "   │  └─ Tip: Trash these from Finder instead\n"
	}
	if invalid, ok := grouped[ErrorInvalidPath]; ok {
		summary += fmt.Sprintf("   ├─ Skipped unsafe paths: %d files\n", len(invalid))
	}
	if unknown, ok := grouped[ErrorUnknown]; ok {
		summary += fmt.Sprintf("   └─ Other errors: %d files\n", len(unknown))
	}

	return summary
}
