package pipeline

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"gdp-pipeline/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTransform_UnitedStates(t *testing.T) {
	prog := &memoryProgress{}
	transformer := NewTransformer(prog, zaptest.NewLogger(t))

	out, err := transformer.Transform(model.RawTable{
		Columns: []string{model.ColumnCountry, model.ColumnGDPMillions},
		Records: []model.RawRecord{{Country: "United States", GDP: "26,854,599"}},
	})
	require.NoError(t, err)

	want := model.Table{
		Columns: []string{model.ColumnCountry, model.ColumnGDPBillions},
		Records: []model.Record{{Country: "United States", GDP: 26854.60}},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("transform mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{"Logging...... Transformation Process Started", "Logging...... Transformation Process Completed"}, prog.messages)
}

func TestTransform_PreservesRowCountAndOrder(t *testing.T) {
	raw := model.RawTable{
		Columns: []string{model.ColumnCountry, model.ColumnGDPMillions},
		Records: []model.RawRecord{
			{Country: "China", GDP: "19,373,586"},
			{Country: "Tuvalu", GDP: "63"},
			{Country: "Germany", GDP: "4,308,854"},
			{Country: "Nauru", GDP: "151"},
		},
	}

	out, err := NewTransformer(&memoryProgress{}, zaptest.NewLogger(t)).Transform(raw)
	require.NoError(t, err)
	require.Equal(t, raw.Len(), out.Len())

	for i, rec := range out.Records {
		require.Equal(t, raw.Records[i].Country, rec.Country)

		millions, err := strconv.ParseFloat(strings.ReplaceAll(raw.Records[i].GDP, ",", ""), 64)
		require.NoError(t, err)
		require.Equal(t, math.RoundToEven(millions/1000*100)/100, rec.GDP)
		require.GreaterOrEqual(t, rec.GDP, 0.0)
	}
	require.Equal(t, 0.06, out.Records[1].GDP)
	require.Equal(t, 0.15, out.Records[3].GDP)
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	raw := model.RawTable{
		Columns: []string{model.ColumnCountry, model.ColumnGDPMillions},
		Records: []model.RawRecord{{Country: "Peru", GDP: "264,636"}},
	}
	_, err := NewTransformer(&memoryProgress{}, zaptest.NewLogger(t)).Transform(raw)
	require.NoError(t, err)
	require.Equal(t, model.ColumnGDPMillions, raw.Columns[1])
	require.Equal(t, "264,636", raw.Records[0].GDP)
}

func TestTransform_MalformedValueIsFatal(t *testing.T) {
	prog := &memoryProgress{}
	raw := model.RawTable{
		Columns: []string{model.ColumnCountry, model.ColumnGDPMillions},
		Records: []model.RawRecord{
			{Country: "Peru", GDP: "264,636"},
			{Country: "Broken", GDP: "12,3x4"},
		},
	}

	_, err := NewTransformer(prog, zaptest.NewLogger(t)).Transform(raw)
	require.Error(t, err)
	require.Equal(t, model.KindNumericFormat, model.KindOf(err))
	require.Contains(t, err.Error(), "row 1 (Broken)")
	require.Equal(t, []string{"Logging...... Transformation Process Started"}, prog.messages)
}

func TestParseMillions(t *testing.T) {
	testCases := []struct {
		in       string
		expected float64
	}{
		{"26,854,599", 26854599},
		{"63", 63},
		{" 1,234.56 ", 1234.56},
		{"1,000,000,000", 1e9},
	}
	for _, tc := range testCases {
		got, err := ParseMillions(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.expected, got, tc.in)
	}

	for _, bad := range []string{"", "—", "n/a", "1.2.3"} {
		_, err := ParseMillions(bad)
		require.Error(t, err, bad)
	}
}

func TestToBillions(t *testing.T) {
	require.Equal(t, 26854.6, ToBillions(26854599))
	require.Equal(t, 1.23, ToBillions(1234.56))
	require.Equal(t, 0.0, ToBillions(0))
	require.Equal(t, 150.25, ToBillions(150250))
}

func TestRenameUnitColumn(t *testing.T) {
	require.Equal(t, "GDP_USD_billions", RenameUnitColumn("GDP_USD_millions"))
	require.Equal(t, "Country", RenameUnitColumn("Country"))
}
