package main

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/shindo-cli/pkg/shindo"
)

func TestQueryInput_Minimal(t *testing.T) {
	t.Parallel()

	in := queryInput{From: "2011/03/11", To: "2011-03-12 12:30"}
	q, err := in.query()
	require.NoError(t, err)

	assert.Equal(t, "2011-03-11T00:00:00+09:00", q.Start.Format(time.RFC3339))
	assert.Equal(t, "2011-03-12T12:30:00+09:00", q.End.Format(time.RFC3339))
	assert.Nil(t, q.Magnitude)
	assert.Nil(t, q.Depth)
	assert.Nil(t, q.EpicenterArea)
	assert.Equal(t, shindo.LevelUnknown, q.MaxIntensity)
}

func TestQueryInput_Full(t *testing.T) {
	t.Parallel()

	in := queryInput{
		From:             "2000/01/01 00:00",
		To:               "2020/01/01 00:00",
		MagMin:           "2",
		DepthMax:         "100",
		Intensity:        "5l",
		Prefectures:      []string{"東京都"},
		StationIntensity: "４",
		Regions:          []string{"三陸沖"},
		Area:             []string{"35.1,142.14", "41.29,142.14", "41.29,145.68"},
	}
	q, err := in.query()
	require.NoError(t, err)

	require.NotNil(t, q.Magnitude)
	assert.Equal(t, shindo.Range[float64]{Min: 2, Max: 9.9}, *q.Magnitude)
	require.NotNil(t, q.Depth)
	assert.Equal(t, shindo.Range[int]{Min: 0, Max: 100}, *q.Depth)
	assert.Equal(t, shindo.Level5Lower, q.MaxIntensity)
	assert.Equal(t, shindo.Level4, q.StationIntensity)
	assert.Equal(t, []string{"東京都"}, q.StationPrefectures)
	assert.Equal(t, []string{"三陸沖"}, q.EpicenterRegions)
	require.NotNil(t, q.EpicenterArea)
	assert.Len(t, q.EpicenterArea.Corners(), 3)
}

func TestQueryInput_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]queryInput{
		"missing to":     {From: "2011/03/11"},
		"bad date":       {From: "2011.03.11", To: "2011/03/12"},
		"bad magnitude":  {From: "2011/03/11", To: "2011/03/12", MagMin: "big"},
		"bad depth":      {From: "2011/03/11", To: "2011/03/12", DepthMax: "1.5"},
		"bad intensity":  {From: "2011/03/11", To: "2011/03/12", Intensity: "8"},
		"two corners":    {From: "2011/03/11", To: "2011/03/12", Area: []string{"35,140", "36,141"}},
		"corner no lon":  {From: "2011/03/11", To: "2011/03/12", Area: []string{"35", "36,141", "37,142"}},
		"corner off map": {From: "2011/03/11", To: "2011/03/12", Area: []string{"95,140", "36,141", "37,142"}},
	}
	for name, in := range cases {
		_, err := in.query()
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, shindo.ErrInvalidParams), name)
	}
}

func TestQueryFromValues(t *testing.T) {
	t.Parallel()

	v := url.Values{
		"from":              {"2011/03/11"},
		"to":                {"2011/03/12"},
		"mag_min":           {"6.5"},
		"station_intensity": {"5H"},
		"pref":              {"東京都,神奈川県", "35"},
		"station":           {" 3510000 "},
		"area":              {"35,140;36,141", "37,142"},
	}
	in := queryFromValues(v)

	assert.Equal(t, "2011/03/11", in.From)
	assert.Equal(t, "6.5", in.MagMin)
	assert.Equal(t, []string{"東京都", "神奈川県", "35"}, in.Prefectures)
	assert.Equal(t, []string{"3510000"}, in.Stations)
	assert.Nil(t, in.Cities)
	assert.Equal(t, []string{"35,140", "36,141", "37,142"}, in.Area)

	q, err := in.query()
	require.NoError(t, err)
	assert.Equal(t, shindo.Level5Upper, q.StationIntensity)
}
