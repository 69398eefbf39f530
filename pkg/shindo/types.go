package shindo

import "time"

// Earthquake is a hypocentre record.
type Earthquake struct {
	ID        string    `json:"id" yaml:"id"`
	Time      time.Time `json:"time" yaml:"time"`
	Location  string    `json:"location" yaml:"location"`
	Latitude  float64   `json:"latitude" yaml:"latitude"`
	Longitude float64   `json:"longitude" yaml:"longitude"`
	// Depth in km.
	Depth float64 `json:"depth" yaml:"depth"`
	// Magnitude is nil when the agency did not determine one.
	Magnitude    *float64 `json:"magnitude" yaml:"magnitude"`
	MaxIntensity Level    `json:"max_intensity" yaml:"max_intensity"`
}

// Observation is the intensity recorded at one station for one event.
type Observation struct {
	StationName string  `json:"station_name" yaml:"station_name"`
	StationCode int     `json:"station_code" yaml:"station_code"`
	Latitude    float64 `json:"latitude" yaml:"latitude"`
	Longitude   float64 `json:"longitude" yaml:"longitude"`
	Intensity   Level   `json:"intensity" yaml:"intensity"`
}

// Counts is the number of events per maximum intensity class.
type Counts struct {
	One       int `json:"one" yaml:"one"`
	Two       int `json:"two" yaml:"two"`
	Three     int `json:"three" yaml:"three"`
	Four      int `json:"four" yaml:"four"`
	FiveLower int `json:"five_lower" yaml:"five_lower"`
	FiveUpper int `json:"five_upper" yaml:"five_upper"`
	SixLower  int `json:"six_lower" yaml:"six_lower"`
	SixUpper  int `json:"six_upper" yaml:"six_upper"`
	Seven     int `json:"seven" yaml:"seven"`
}

// Total sums every class.
func (c Counts) Total() int {
	return c.One + c.Two + c.Three + c.Four + c.FiveLower + c.FiveUpper + c.SixLower + c.SixUpper + c.Seven
}

// ByLevel returns the count for a single class.
func (c Counts) ByLevel(l Level) int {
	switch l {
	case Level1:
		return c.One
	case Level2:
		return c.Two
	case Level3:
		return c.Three
	case Level4:
		return c.Four
	case Level5Lower:
		return c.FiveLower
	case Level5Upper:
		return c.FiveUpper
	case Level6Lower:
		return c.SixLower
	case Level6Upper:
		return c.SixUpper
	case Level7:
		return c.Seven
	}
	return 0
}

// Bucket is one row of a statistics search.
type Bucket struct {
	Key    time.Time `json:"key" yaml:"key"`
	Unit   Unit      `json:"unit" yaml:"unit"`
	Counts `yaml:",inline"`
}

// Summary is the totals row of a statistics search.
type Summary struct {
	Counts `yaml:",inline"`
}
