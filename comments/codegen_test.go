package comments_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lookids/lookids/comments"
)

// collidingChecker reports the first taken candidates as already
// existing, then frees up.
type collidingChecker struct {
	taken int
	calls int
}

func (c *collidingChecker) ExistsByCode(_ context.Context, _ string) (bool, error) {
	c.calls++

	return c.calls <= c.taken, nil
}

func TestCodeGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("first candidate is free", func(t *testing.T) {
		checker := &collidingChecker{}
		gen := comments.NewCodeGenerator(checker)

		code, err := gen.Generate(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, code)
		require.Equal(t, 1, checker.calls)
	})

	t.Run("succeeds on the third attempt after two collisions", func(t *testing.T) {
		checker := &collidingChecker{taken: 2}
		gen := comments.NewCodeGenerator(checker)

		code, err := gen.Generate(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, code)
		require.Equal(t, 3, checker.calls)
	})

	t.Run("gives up after five collisions", func(t *testing.T) {
		checker := &collidingChecker{taken: 5}
		gen := comments.NewCodeGenerator(checker)

		_, err := gen.Generate(ctx)
		require.Error(t, err)

		var dupErr comments.DuplicateCodeError
		require.ErrorAs(t, err, &dupErr)
		require.Equal(t, 5, dupErr.Attempts)
		require.Equal(t, 5, checker.calls)
	})

	t.Run("generated codes are unique", func(t *testing.T) {
		gen := comments.NewCodeGenerator(&collidingChecker{})

		seen := make(map[string]struct{})

		for range 100 {
			code, err := gen.Generate(ctx)
			require.NoError(t, err)

			_, dup := seen[code]
			require.False(t, dup, "code %q generated twice", code)

			seen[code] = struct{}{}
		}
	})
}
