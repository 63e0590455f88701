package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(v int64) *int64 { return &v }

func TestPairFromIDs_FourShapes(t *testing.T) {
	cases := []struct {
		name               string
		sm, sp, em, ep     *int64
		wantStart, wantEnd Ref
	}{
		{"movie to movie", id(5), nil, id(10), nil, Ref{KindMovie, 5}, Ref{KindMovie, 10}},
		{"movie to person", id(5), nil, nil, id(10), Ref{KindMovie, 5}, Ref{KindPerson, 10}},
		{"person to movie", nil, id(5), id(10), nil, Ref{KindPerson, 5}, Ref{KindMovie, 10}},
		{"person to person", nil, id(5), nil, id(10), Ref{KindPerson, 5}, Ref{KindPerson, 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := PairFromIDs(tc.sm, tc.sp, tc.em, tc.ep)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, p.Start)
			assert.Equal(t, tc.wantEnd, p.End)

			sm, sp, em, ep := p.Columns()
			assert.Equal(t, tc.sm, sm)
			assert.Equal(t, tc.sp, sp)
			assert.Equal(t, tc.em, em)
			assert.Equal(t, tc.ep, ep)
		})
	}
}

func TestPairFromIDs_Rejects(t *testing.T) {
	cases := []struct {
		name           string
		sm, sp, em, ep *int64
	}{
		{"both start fields", id(5), id(7), id(10), nil},
		{"both end fields", id(5), nil, id(10), id(11)},
		{"missing start", nil, nil, id(10), nil},
		{"missing end", id(5), nil, nil, nil},
		{"self loop", id(5), nil, id(5), nil},
		{"non positive id", id(0), nil, id(5), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PairFromIDs(tc.sm, tc.sp, tc.em, tc.ep)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation), "got %v", err)
		})
	}
}

func TestPair_SameIDDifferentKindAllowed(t *testing.T) {
	p, err := NewPair(Ref{KindMovie, 5}, Ref{KindPerson, 5})
	require.NoError(t, err)
	assert.False(t, p.Start.Equal(p.End))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("person")
	require.NoError(t, err)
	assert.Equal(t, KindPerson, k)

	_, err = ParseKind("tv")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestErrorKindsWrap(t *testing.T) {
	base := errors.New("boom")
	err := Provider(base)
	assert.ErrorIs(t, err, ErrProvider)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, err, Provider(err))

	assert.ErrorIs(t, Storage(base), ErrStorage)
	assert.Nil(t, Storage(nil))
}
