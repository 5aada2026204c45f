package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseValueType(t *testing.T) {
	assert.Equal(t, TypeText, ParseValueType("string"))
	assert.Equal(t, TypeDateTime, ParseValueType("date"))
	assert.Equal(t, TypeInteger, ParseValueType("int"))
	assert.Equal(t, TypeNumeric, ParseValueType("decimal"))
	assert.Equal(t, TypeUnknown, ParseValueType("blob"))
}

func TestDataView_Valid(t *testing.T) {
	var nilView *DataView
	assert.False(t, nilView.Valid())
	assert.False(t, (&DataView{}).Valid())
	assert.False(t, (&DataView{Table: &Table{Rows: [][]any{{1}}}}).Valid())
	assert.False(t, (&DataView{Table: &Table{Columns: []Column{{DisplayName: "a"}}}}).Valid())
	assert.True(t, (&DataView{Table: &Table{
		Columns: []Column{{DisplayName: "a"}},
		Rows:    [][]any{{1}},
	}}).Valid())
}

func TestFirstColumn(t *testing.T) {
	a := Column{DisplayName: "a"}
	b := Column{DisplayName: "b"}
	b.AddRole("actualValue")
	c := Column{DisplayName: "c"}
	c.AddRole("actualValue")
	tbl := &Table{Columns: []Column{a, b, c}}

	got, idx := tbl.FirstColumn("actualValue")
	assert.Equal(t, 1, idx)
	assert.Equal(t, "b", got.DisplayName)

	_, idx = tbl.FirstColumn("date")
	assert.Equal(t, -1, idx)

	var nilTable *Table
	_, idx = nilTable.FirstColumn("date")
	assert.Equal(t, -1, idx)

	dv := &DataView{Table: tbl}
	assert.True(t, dv.HasRole("actualValue"))
	assert.False(t, dv.HasRole("date"))
}

func TestFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{1.5, 1.5},
		{3, 3},
		{int64(4), 4},
		{"1,234.5", 1234.5},
		{"$10", 10},
		{"12.5%", 0.125},
		{true, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Float(tt.in), "Float(%v)", tt.in)
	}

	for _, in := range []any{nil, "", "n/a", struct{}{}} {
		assert.True(t, math.IsNaN(Float(in)), "Float(%v)", in)
	}
}

func TestTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	got, ok := Time("2024-03-01")
	assert.True(t, ok)
	assert.True(t, want.Equal(got))

	got, ok = Time(float64(want.UnixMilli()))
	assert.True(t, ok)
	assert.True(t, want.Equal(got))

	_, ok = Time("not a date")
	assert.False(t, ok)
	_, ok = Time(time.Time{})
	assert.False(t, ok)
	_, ok = Time(nil)
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	s, ok := Text("East")
	assert.True(t, ok)
	assert.Equal(t, "East", s)

	s, ok = Text(2.5)
	assert.True(t, ok)
	assert.Equal(t, "2.5", s)

	_, ok = Text("")
	assert.False(t, ok)
	_, ok = Text(nil)
	assert.False(t, ok)
	_, ok = Text(math.NaN())
	assert.False(t, ok)
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull("  "))
	assert.True(t, IsNull(math.NaN()))
	assert.True(t, IsNull(time.Time{}))
	assert.False(t, IsNull(0.0))
	assert.False(t, IsNull("x"))
}
