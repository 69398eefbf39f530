package shindo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Level
	}{
		{"1", Level1},
		{"4", Level4},
		{"5L", Level5Lower},
		{"5l", Level5Lower},
		{"A", Level5Lower},
		{"5H", Level5Upper},
		{"b", Level5Upper},
		{"6L", Level6Lower},
		{"C", Level6Lower},
		{"6H", Level6Upper},
		{"D", Level6Upper},
		{"7", Level7},
		{"７", Level7},
		{" ５Ｌ ", Level5Lower},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "0", "5", "8", "E", "seven"} {
		_, err := ParseLevel(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrInvalidParams), in)
	}
}

func TestLevel_CodeAndString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1", Level1.Code())
	assert.Equal(t, "A", Level5Lower.Code())
	assert.Equal(t, "B", Level5Upper.Code())
	assert.Equal(t, "C", Level6Lower.Code())
	assert.Equal(t, "D", Level6Upper.Code())
	assert.Equal(t, "7", Level7.Code())

	assert.Equal(t, "5L", Level5Lower.String())
	assert.Equal(t, "6H", Level6Upper.String())
	assert.Equal(t, "unknown", LevelUnknown.String())
	assert.False(t, LevelUnknown.Valid())
}

func TestLevel_Text(t *testing.T) {
	t.Parallel()

	b, err := Level6Lower.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "6L", string(b))

	var l Level
	require.NoError(t, l.UnmarshalText([]byte("5H")))
	assert.Equal(t, Level5Upper, l)

	_, err = LevelUnknown.MarshalText()
	assert.Error(t, err)
}

func TestParseLevelLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]Level{
		"震度１":  Level1,
		"震度２":  Level2,
		"震度３":  Level3,
		"震度４":  Level4,
		"震度５弱": Level5Lower,
		"震度５強": Level5Upper,
		"震度６弱": Level6Lower,
		"震度６強": Level6Upper,
		"震度７":  Level7,
		"震度7":  Level7,
	}
	for in, want := range tests {
		got, err := parseLevelLabel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseLevelLabel("震度８")
	assert.Error(t, err)
}

func TestSortAndAggregationCodes(t *testing.T) {
	t.Parallel()

	sorts := map[SortOrder]string{"": "S0", SortStart: "S0", SortEnd: "S1", SortIntensity: "S2", SortScale: "S4"}
	for s, want := range sorts {
		got, err := s.code()
		require.NoError(t, err)
		assert.Equal(t, want, got, string(s))
	}
	_, err := SortOrder("magnitude").code()
	assert.True(t, errors.Is(err, ErrInvalidParams))

	aggs := map[Aggregation]string{"": "C0", AggregateAuto: "C0", AggregateDay: "C1", AggregateMonth: "C2", AggregateYear: "C3"}
	for a, want := range aggs {
		got, err := a.code()
		require.NoError(t, err)
		assert.Equal(t, want, got, string(a))
	}
	_, err = Aggregation("hour").code()
	assert.True(t, errors.Is(err, ErrInvalidParams))
}
