package errors

// CommandError represents an error that occurred during command execution, storing the exit code and the command arguments.
type CommandError struct {
	ExitCode    int
	CommonError string
	Args        interface{}
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// Unwrap returns the wrapped error so callers can inspect the scan error kind.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError instance, encapsulating args and the error message.
func NewCommandError(args interface{}, err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Args:        args,
		Err:         err,
	}
}
