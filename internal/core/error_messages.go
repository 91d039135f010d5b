// Package core provides the inventory business logic.
//
// # Error Codes Reference
//
// This file maps errors to user-friendly messages with codes for support
// reference. Typed errors are matched first, then driver and OS error text.
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date: expected month/day/year, e.g. 3/5/2024
//	VAL002 - Invalid number: quantity or price is not a valid number
//	VAL003 - Missing name: the product must be given a name
//	VAL004 - Invalid ID: the ID is not a whole number
//	VAL005 - Bad row: the row does not have the expected columns
//
// # Lookup Errors (NF001-NF099)
//
//	NF001 - Product not found: no product has this ID
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File not found
//	FILE002 - Permission denied
//	FILE003 - Disk full
//	FILE004 - Invalid CSV
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Database locked: another program holds the database
//	DB002 - Connection refused
//	DB003 - Timeout
//
// # Input Errors (INP001-INP099)
//
//	INP001 - Input closed
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the original error.
package core

import (
	"encoding/csv"
	"errors"
	"io/fs"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// String formats the message for terminal output.
func (m UserMessage) String() string {
	if m.Code == "" {
		return m.Message
	}
	return m.Message + " [" + m.Code + "]. " + m.Action
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns match lower-cased error text; the first match wins.
var errorPatterns = []errorPattern{
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "The database is in use by another program",
			Action:  "Close other copies of the program and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "no space left",
		msg: UserMessage{
			Message: "The disk is full",
			Action:  "Free up disk space and try again",
			Code:    "FILE003",
		},
	},
}

var (
	msgInvalidDate = UserMessage{
		Message: "Invalid date",
		Action:  "Use month/day/year, for example 3/5/2024",
		Code:    "VAL001",
	}
	msgInvalidNumber = UserMessage{
		Message: "Invalid number",
		Action:  "Enter a whole number for quantity and a decimal such as 10.99 for price",
		Code:    "VAL002",
	}
	msgMissingName = UserMessage{
		Message: "The product must be given a name",
		Action:  "Enter a product name",
		Code:    "VAL003",
	}
	msgInvalidID = UserMessage{
		Message: "Invalid product ID",
		Action:  "Enter a number from the ID options",
		Code:    "VAL004",
	}
	msgBadRow = UserMessage{
		Message: "Row does not have the expected columns",
		Action:  "Each row needs name, price, quantity and date",
		Code:    "VAL005",
	}
	msgNotFound = UserMessage{
		Message: "There is no product associated with this ID",
		Action:  "Choose an ID from the ID options",
		Code:    "NF001",
	}
	msgFileNotFound = UserMessage{
		Message: "File not found",
		Action:  "Check the file path and try again",
		Code:    "FILE001",
	}
	msgPermission = UserMessage{
		Message: "Permission denied",
		Action:  "Check file permissions and try again",
		Code:    "FILE002",
	}
	msgInvalidCSV = UserMessage{
		Message: "The file is not a valid CSV",
		Action:  "Ensure the file is comma-separated",
		Code:    "FILE004",
	}
	msgInputClosed = UserMessage{
		Message: "Input closed",
		Action:  "Restart the program to continue",
		Code:    "INP001",
	}
	msgDefault = UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or check the logs",
		Code:    "ERR000",
	}
)

// MapError converts an error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		switch pe.Field {
		case "date":
			return msgInvalidDate
		case "quantity", "price":
			return msgInvalidNumber
		case "name":
			return msgMissingName
		case "id":
			return msgInvalidID
		default:
			return msgBadRow
		}
	}

	var nf *NotFoundError
	var ce *csv.ParseError
	switch {
	case errors.As(err, &nf):
		return msgNotFound
	case errors.Is(err, ErrInputClosed):
		return msgInputClosed
	case errors.Is(err, fs.ErrNotExist):
		return msgFileNotFound
	case errors.Is(err, fs.ErrPermission):
		return msgPermission
	case errors.As(err, &ce):
		return msgInvalidCSV
	}

	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}

	return msgDefault
}
