package profiles

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	tagCharPool    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tagLength      = 5
	maxTagAttempts = 5
)

var defaultProfileImages = []string{
	"media/default_profile_1.jpeg",
	"media/default_profile_2.jpeg",
	"media/default_profile_3.jpeg",
	"media/default_profile_4.jpeg",
	"media/default_profile_5.jpeg",
}

// RandomTag draws a 5-character tag from the char pool. The random
// source is an explicit parameter so callers control determinism.
func RandomTag(rng *rand.Rand) string {
	var sb strings.Builder

	sb.Grow(tagLength)

	for range tagLength {
		sb.WriteByte(tagCharPool[rng.IntN(len(tagCharPool))])
	}

	return sb.String()
}

func randomImage(rng *rand.Rand) string {
	return defaultProfileImages[rng.IntN(len(defaultProfileImages))]
}

type tagExistsFunc func(ctx context.Context, nickname, tag string) (bool, error)

// uniqueTag retries RandomTag until the (nickname, tag) pair is free.
// The bound keeps a broken existence check from looping forever.
func uniqueTag(ctx context.Context, rng *rand.Rand, nickname string, exists tagExistsFunc) (string, error) {
	for attempt := 1; attempt <= maxTagAttempts; attempt++ {
		tag := RandomTag(rng)

		taken, err := exists(ctx, nickname, tag)
		if err != nil {
			return "", fmt.Errorf("failed to check tag existence: %w", err)
		}

		if !taken {
			return tag, nil
		}
	}

	return "", DuplicateTagError{Nickname: nickname, Attempts: maxTagAttempts}
}
