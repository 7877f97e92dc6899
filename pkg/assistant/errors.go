package assistant

import "errors"

var (
	// ErrUnknownTool is returned when the model requests a tool that
	// was never declared. This is a protocol violation: the round ends
	// without a continuation call.
	ErrUnknownTool = errors.New("assistant: unknown tool")

	// ErrMalformedArguments is returned when tool arguments fail to
	// parse. Recoverable: the model is told via an error tool turn.
	ErrMalformedArguments = errors.New("assistant: malformed tool arguments")

	// ErrInvalidArgument is returned when parsed arguments fail
	// validation. Recoverable, like ErrMalformedArguments.
	ErrInvalidArgument = errors.New("assistant: invalid argument")

	// ErrBookingFailed is returned when the scheduling collaborator
	// rejects a booking. Surfaced to the conversation, not the caller.
	ErrBookingFailed = errors.New("assistant: booking failed")
)
