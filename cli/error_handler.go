package cli

import (
	"fmt"
	"os"

	"github.com/dotforge/dotkit/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Create a dotkit.yml in your dotfiles repository or pass one with -c.\n")
		return err

	case errors.ErrCodeConfigValidation, errors.ErrCodeConfigInvalid:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		if dkErr, ok := err.(*errors.DotkitError); ok {
			if path, ok := dkErr.Details["path"]; ok {
				fmt.Fprintf(os.Stderr, "Fix the reported entry in %s and re-run.\n", path)
			}
		}
		return err

	case errors.ErrCodeLocationsNotFound:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "The source directory must contain a locations.toml mapping destinations to sources.\n")
		return err

	case errors.ErrCodeSourceMissing:
		if dkErr, ok := err.(*errors.DotkitError); ok {
			fmt.Fprintf(os.Stderr, "❌ Source file '%s' does not exist\n", dkErr.Details["source"])
			fmt.Fprintf(os.Stderr, "Remove the entry from locations.toml or add the missing file.\n")
		} else {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		return err

	case errors.ErrCodePathEscape:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Entries in locations.toml must stay inside the source and install directories.\n")
		return err

	case errors.ErrCodeGitNotRepo:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Run this command from inside a git repository.\n")
		return err

	case errors.ErrCodeGitRemoteFailed:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Check the repository URL and your network connection.\n")
		return err

	case errors.ErrCodeCommandNotFound:
		fmt.Fprintf(os.Stderr, "❌ Required command not found. Make sure git is installed and on your PATH.\n")
		return err

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		// If verbose mode, show full error details
		if h.Verbose {
			if dkErr, ok := err.(*errors.DotkitError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", dkErr.ToJSON())
			}
		}
		return err
	}
}
