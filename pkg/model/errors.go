package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrGenerationFailed is returned when the backend produced no usable batch.
	ErrGenerationFailed = goerr.New("generation failed")

	ErrEmptyPrompt   = goerr.New("prompt is empty")
	ErrStaleRound    = goerr.New("generation round was superseded")
	ErrInvalidIdea   = goerr.New("invalid identity idea")
	ErrInvalidEmail  = goerr.New("email is required")
	ErrUnknownHandle = goerr.New("unknown handle")
)
