package pipeline

import "errors"

var (
	// ErrAbstained means the notes did not carry enough material for a quiz.
	// The report is still returned, with Status "error" and the corrective message.
	ErrAbstained = errors.New("not enough material for a quiz")

	// ErrEmptyInput means the input had no text at all
	ErrEmptyInput = errors.New("input is empty")

	// ErrInputTooLarge means the input exceeded input.max_bytes
	ErrInputTooLarge = errors.New("input exceeds the size limit")

	// ErrUnsupportedInput means the input is not a text format any adapter reads
	ErrUnsupportedInput = errors.New("unsupported input")
)
