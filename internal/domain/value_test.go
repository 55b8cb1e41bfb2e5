package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1000000.0, "1000000.0"},
		{1000.0, "1000.0"},
		{1.0, "1.0"},
		{0.92, "0.92"},
		{920000.0, "920000.0"},
		{0.0001, "0.0001"},
		{1e-06, "1e-06"},
		{1.5e-05, "1.5e-05"},
		{1e16, "1e+16"},
		{1234567890123456.0, "1234567890123456.0"},
		{-2.5, "-2.5"},
		{0, "0.0"},
		{math.Inf(1), "inf"},
		{math.NaN(), ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatFloat(c.in), "%v", c.in)
	}
}

func TestValueKinds(t *testing.T) {
	assert.True(t, Null().IsNull())
	assert.Equal(t, "", Null().Render())
	assert.Nil(t, Null().Interface())

	s := String("West")
	got, ok := s.Str()
	assert.True(t, ok)
	assert.Equal(t, "West", got)
	assert.Equal(t, "West", s.Interface())

	f := Float(2.5)
	n, ok := f.Float64()
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)
	assert.Equal(t, "2.5", f.Render())

	assert.True(t, Float(math.NaN()).IsNull())
	assert.True(t, NullableFloat(nil).IsNull())
}

func TestValueKeyDistinguishesKinds(t *testing.T) {
	assert.NotEqual(t, String("1.0").Key(), Float(1.0).Key())
	assert.NotEqual(t, String("").Key(), Null().Key())
	assert.Equal(t, Float(1.0).Key(), Float(1.0).Key())
}

func TestRawTable(t *testing.T) {
	tbl := NewRawTable("a.csv", []string{"x", "y", "x"}, [][]string{{"1", "2", "3"}, {"4"}})
	assert.True(t, tbl.Has("x"))
	assert.Equal(t, 0, tbl.Index("x"))
	assert.Equal(t, -1, tbl.Index("z"))
	assert.Equal(t, "1", tbl.Cell(0, "x"))
	assert.Equal(t, "", tbl.Cell(1, "y"))
	assert.Equal(t, 2, tbl.Len())
}

func TestRunReportAdd(t *testing.T) {
	r := &RunReport{RunID: "r1"}
	r.Add(SourceOutcome{Source: "a", Status: StatusProcessed, Rows: 3})
	r.Add(SourceOutcome{Source: "b", Status: StatusSkipped, Missing: []string{"date"}})
	r.Add(SourceOutcome{Source: "c", Status: StatusFailed})
	assert.Equal(t, 1, r.Processed)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 1, r.Failed)
	assert.Len(t, r.Outcomes, 3)
	assert.Contains(t, r.Summary(), "processed=1")

	r.NoData = true
	assert.Contains(t, r.Summary(), "no valid files processed")
}
