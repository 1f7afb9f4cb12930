package common

import (
	"context"
	"fmt"

	"cyrus/internal/errors"
)

// CreateInputFunc defines how to create the specific API input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// APIOperationFunc is a generic function signature for any remote service operation.
type APIOperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunAPICommand encapsulates the common logic for file-based CLI commands:
// read and validate the input files, build the request, call the service, and
// hand the result to the output pipeline.
func RunAPICommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	apiOperation APIOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	// Pass the logger when creating helpers
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result, err := apiOperation(ctx, input)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
