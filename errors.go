// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package selq

import (
	"context"
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a non-blocking operation cannot proceed.
//
// Poll returns ErrWouldBlock when the queue is empty. It is a control
// flow signal, not a failure: the caller either retries later or switches
// to the blocking Take.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

var (
	// ErrInvalidCapacity is returned when a bounded queue is constructed
	// with a capacity that is not a positive integer.
	ErrInvalidCapacity = errors.New("selq: capacity must be > 0")

	// ErrInterrupted is returned when a blocking wait is abandoned because
	// its context was cancelled or its deadline expired. The returned
	// error also matches the context's own error under errors.Is.
	ErrInterrupted = errors.New("selq: interrupted")

	// ErrNoTargets is returned by Select.Join and Select.Read when no
	// source is registered. It indicates a wiring bug.
	ErrNoTargets = errors.New("selq: select has no targets")

	// ErrIndexOutOfRange is returned by List operations given an index
	// outside the list bounds.
	ErrIndexOutOfRange = errors.New("selq: index out of range")
)

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

// IsInterrupted reports whether err is the result of a cancelled wait.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}

func interrupted(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
}
