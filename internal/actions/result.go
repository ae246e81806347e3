package actions

import "fmt"

// Result is the uniform outcome of executing an action. Message is always
// human-readable and is what the surrounding application shows the user.
type Result struct {
	Success bool   `yaml:"success" json:"success"`
	Message string `yaml:"message" json:"message"`
}

func succeed(format string, args ...any) Result {
	return Result{Success: true, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

// fromCollaborator maps a collaborator reply onto a Result, keeping the
// collaborator's message verbatim.
func fromCollaborator(msg string, err error) Result {
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: msg}
}
