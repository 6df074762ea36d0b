// Package vote defines the vote direction shared by posts and comments.
package vote

import (
	"fmt"

	"github.com/lllypuk/agora/internal/domain/errs"
)

// Direction is the direction of a vote on a post or comment.
type Direction string

// Valid vote directions.
const (
	Up   Direction = "upvote"
	Down Direction = "downvote"
)

// ParseDirection validates a wire value before any storage access.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("%w: vote direction must be %q or %q", errs.ErrInvalidInput, Up, Down)
	}
}

// Delta returns the counter adjustment for the direction.
func (d Direction) Delta() int {
	if d == Down {
		return -1
	}
	return 1
}

// String returns the wire representation.
func (d Direction) String() string {
	return string(d)
}
