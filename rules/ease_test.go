package rules

import (
	"testing"

	"github.com/panyam/aescript/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func easeArray(n int) decl.Value {
	elems := make([]decl.Value, n)
	for i := range elems {
		elems[i] = decl.OpaqueValue(decl.HostType(KeyframeEaseType))
	}
	return decl.ArrayValue(elems...)
}

func TestEaseDimensions(t *testing.T) {
	want := map[decl.ValueKind]int{
		decl.KindOneD:          1,
		decl.KindTwoD:          2,
		decl.KindTwoDSpatial:   2,
		decl.KindThreeD:        3,
		decl.KindThreeDSpatial: 3,
		decl.KindColor:         4,
	}
	for kind, n := range want {
		got, m := EaseDimensions(kind)
		assert.Nil(t, m, kind.String())
		assert.Equal(t, n, got, kind.String())
	}

	for _, kind := range []decl.ValueKind{decl.KindNone, decl.KindCustomValue, decl.KindIndex, decl.KindMarker, decl.KindShape, decl.KindTextDocument, decl.KindObject} {
		_, m := EaseDimensions(kind)
		require.NotNil(t, m, kind.String())
		assert.Equal(t, EaseKind, m.Reason)
		assert.Contains(t, m.Message, "does not support temporal easing")
	}
}

func TestInvalidKindsRejectedRegardlessOfCount(t *testing.T) {
	e := NewEvaluator(testStore(t))
	for n := 0; n <= 4; n++ {
		got := e.CheckTemporalEase(decl.KindShape, easeArray(n), easeArray(n))
		require.Len(t, got, 1)
		assert.Equal(t, EaseKind, got[0].Reason)
	}
}

func TestThreeDInEaseTooShort(t *testing.T) {
	e := NewEvaluator(testStore(t))
	got := e.CheckTemporalEase(decl.KindThreeD, easeArray(2), easeArray(3))
	require.Len(t, got, 1)
	assert.Equal(t, EaseCount, got[0].Reason)
	assert.Equal(t, "expected 3, got 2 for in-ease", got[0].Message)
}

func TestEaseSidesReportedSeparately(t *testing.T) {
	e := NewEvaluator(testStore(t))
	got := e.CheckTemporalEase(decl.KindColor, easeArray(3), easeArray(5))
	require.Len(t, got, 2)
	assert.Equal(t, "expected 4, got 3 for in-ease", got[0].Message)
	assert.Equal(t, "expected 4, got 5 for out-ease", got[1].Message)

	assert.Empty(t, e.CheckTemporalEase(decl.KindColor, easeArray(4), easeArray(4)))
	assert.Empty(t, e.CheckTemporalEase(decl.KindOneD, decl.OpaqueValue(nil), easeArray(1)))
}

func TestEaseElementsMustBeKeyframeEase(t *testing.T) {
	e := NewEvaluator(testStore(t))
	bad := decl.ArrayValue(decl.NumberValue(1))
	got := e.CheckTemporalEase(decl.KindOneD, bad, easeArray(1))
	require.Len(t, got, 1)
	assert.Equal(t, TypeMismatch, got[0].Reason)
	assert.Equal(t, 0, got[0].Component)

	got = e.CheckTemporalEase(decl.KindOneD, decl.NumberValue(1), easeArray(1))
	require.Len(t, got, 1)
	assert.Equal(t, TypeMismatch, got[0].Reason)
}

func TestStreamEaseWithOptionalDepth(t *testing.T) {
	e := NewEvaluator(testStore(t))
	scale := decl.StreamType("Property", decl.KindTwoD)
	scale.OptionalDepth = true
	assert.Empty(t, e.CheckStreamEase(scale, easeArray(2), easeArray(3)))

	got := e.CheckStreamEase(scale, easeArray(1), easeArray(4))
	require.Len(t, got, 2)
	assert.Equal(t, "expected 2, got 1 for in-ease", got[0].Message)

	flat := decl.StreamType("Property", decl.KindTwoD)
	assert.Len(t, e.CheckStreamEase(flat, easeArray(3), easeArray(2)), 1)
}
