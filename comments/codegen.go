package comments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const maxCodeAttempts = 5

// CodeChecker reports whether a candidate comment code is already taken.
type CodeChecker interface {
	ExistsByCode(ctx context.Context, commentCode string) (exists bool, err error)
}

// CodeGenerator allocates globally unique comment codes. UUID collisions
// are astronomically unlikely; the attempt bound only keeps a
// misbehaving store from turning the check into an infinite loop.
type CodeGenerator struct {
	checker CodeChecker
	newCode func() string
}

func NewCodeGenerator(checker CodeChecker) *CodeGenerator {
	return &CodeGenerator{
		checker: checker,
		newCode: uuid.NewString,
	}
}

func (gen *CodeGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code := gen.newCode()

		exists, err := gen.checker.ExistsByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check comment code existence: %w", err)
		}

		if !exists {
			return code, nil
		}
	}

	return "", DuplicateCodeError{Attempts: maxCodeAttempts}
}
