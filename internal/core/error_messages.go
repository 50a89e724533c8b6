package core

// error_messages.go maps technical errors to user-facing messages.
//
// # Error Codes Reference
//
// Users can quote the code shown next to an error message; support staff
// look it up here.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: "Maximum allowed file size is 10 MB, but received N MB."
//	          Action: Upload a smaller file or a sample of the data
//	          Matched by type: *FileTooLargeError
//
//	FILE002 - Unreadable file: The file could not be read as a table
//	          Action: Check that the file is a valid CSV or Excel workbook
//	          Patterns: "load error"
//
//	FILE003 - Sheet not found: The selected worksheet does not exist
//	          Action: Pick one of the sheets listed in the sidebar
//	          Patterns: "sheet not found"
//
//	FILE004 - No file: No file was selected
//	          Action: Choose a .csv or .xlsx file in the sidebar
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file has no header row
//	          Action: Upload a file with a header row and at least one data row
//	          Patterns: "no columns to parse"
//
//	FILE006 - Unsupported format: "Please upload only .csv or .xlsx files."
//	          Action: Convert the file to CSV or XLSX
//	          Matched by sentinel: ErrUnsupportedFormat
//
// # Profiling Errors (PROF001-PROF099)
//
//	PROF001 - Profiling failed: The report could not be generated
//	          Action: Make sure the data has at least one column and one row
//	          Patterns: "profiling error"
//
//	PROF002 - System busy: Too many reports are being generated
//	          Action: Please wait a moment and try again
//	          Patterns: "too many profiling jobs"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - No upload: Nothing has been uploaded in this session
//	         Action: Upload a file from the sidebar
//	         Patterns: "no active upload"
//
//	SES002 - Report expired: The report is no longer available
//	         Action: Generate the report again
//	         Patterns: "report not found"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: Patterns "context canceled"
//	REQ002 - Request timeout: Patterns "context deadline exceeded"
//	REQ003 - Request too large: Patterns "request body too large"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests: Patterns "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns go before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// Validation rejections carry fixed wording.
const (
	unsupportedFormatMessage = "Please upload only .csv or .xlsx files."
	fileTooLargeFormat       = "Maximum allowed file size is %d MB, but received %.2f MB."
)

var errorPatterns = []errorPattern{
	// File errors. "sheet not found" and "no columns to parse" are always
	// wrapped in a load error, so they come first.
	{
		pattern: "sheet not found",
		msg: UserMessage{
			Message: "The selected worksheet does not exist",
			Action:  "Pick one of the sheets listed in the sidebar",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no columns to parse",
		msg: UserMessage{
			Message: "The uploaded file has no header row",
			Action:  "Upload a file with a header row and at least one data row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "load error",
		msg: UserMessage{
			Message: "The file could not be read as a table",
			Action:  "Check that the file is a valid CSV or Excel workbook",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a .csv or .xlsx file in the sidebar",
			Code:    "FILE004",
		},
	},

	// Profiling
	{
		pattern: "too many profiling jobs",
		msg: UserMessage{
			Message: "Too many reports are being generated right now",
			Action:  "Please wait a moment and try again",
			Code:    "PROF002",
		},
	},
	{
		pattern: "profiling error",
		msg: UserMessage{
			Message: "The report could not be generated",
			Action:  "Make sure the data has at least one column and one row",
			Code:    "PROF001",
		},
	},

	// Session
	{
		pattern: "no active upload",
		msg: UserMessage{
			Message: "Nothing has been uploaded in this session",
			Action:  "Upload a file from the sidebar",
			Code:    "SES001",
		},
	},
	{
		pattern: "report not found",
		msg: UserMessage{
			Message: "The report is no longer available",
			Action:  "Generate the report again",
			Code:    "SES002",
		},
	},

	// Request
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or use minimal mode",
			Code:    "REQ002",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The request is too large",
			Action:  fmt.Sprintf("Upload a file of at most %d MB", MaxFileSizeMB),
			Code:    "REQ003",
		},
	},

	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Validation rejections are matched by type and keep their exact wording;
// everything else goes through the pattern table. Unknown errors map to
// ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var tooLarge *FileTooLargeError
	switch {
	case errors.As(err, &tooLarge):
		return UserMessage{
			Message: fmt.Sprintf(fileTooLargeFormat, MaxFileSizeMB, tooLarge.SizeMB),
			Action:  "Upload a smaller file or a sample of the data",
			Code:    "FILE001",
		}
	case errors.Is(err, ErrUnsupportedFormat):
		return UserMessage{
			Message: unsupportedFormatMessage,
			Action:  "Convert the file to CSV or XLSX",
			Code:    "FILE006",
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
