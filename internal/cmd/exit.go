// Package cmd provides command implementations for the atlasgen CLI.
package cmd

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitTemplateError indicates a template failed to parse or evaluate,
	// or a datasource template resolved to an empty connection string.
	ExitTemplateError = 2

	// ExitNotFound indicates a project or coverage file was not found.
	ExitNotFound = 3

	// ExitCancelled indicates a batch run was cancelled before completion.
	ExitCancelled = 4
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitTemplateError:
		return "Template Error"
	case ExitNotFound:
		return "Not Found"
	case ExitCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}
