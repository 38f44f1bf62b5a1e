package jfif

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSegmentLengthRejectsUnderTwo(t *testing.T) {
	_, err := NewSegmentLength(1)
	require.Error(t, err)
	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, ErrLengthUnderrun, code)
}

func TestSegmentLengthBoundaryOfTwo(t *testing.T) {
	l, err := NewSegmentLength(2)
	require.NoError(t, err)
	require.EqualValues(t, 0, l.Remaining())
	_, err = l.TakeByte()
	require.Error(t, err)
}

func TestSegmentLengthTakeDecrementsRemaining(t *testing.T) {
	l, err := NewSegmentLength(10)
	require.NoError(t, err)
	require.EqualValues(t, 8, l.Remaining())
	l, err = l.Take(5)
	require.NoError(t, err)
	require.EqualValues(t, 3, l.Remaining())
	_, err = l.Take(4)
	require.Error(t, err)
}
