package cli

import (
	"io"
	"time"

	"github.com/okian/heartcheck/internal/domain/form"
)

// Exit codes returned by Run.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
)

// Config holds one invocation of the predict tool.
type Config struct {
	Endpoint string        // Prediction endpoint URL
	Timeout  time.Duration // Request timeout, zero for none
	Preset   string        // Preset applied before the field flags
	JSON     bool          // Print the result as JSON
	Verbose  bool          // Log at debug level
	Help     bool          // Print usage and exit

	// Values holds only the field flags given on the command line.
	Values map[form.Field]string

	Stdout io.Writer
	Stderr io.Writer
}

// Result is the JSON form of a successful prediction.
type Result struct {
	Prediction string `json:"prediction"`
	Outcome    string `json:"outcome"`
}
