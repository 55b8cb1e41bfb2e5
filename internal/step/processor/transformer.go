package processor

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/internal/rate"
	"github.com/tigerroll/windcapex/internal/schema"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
)

const transformerModule = "transformer"

// RecordTransformer casts a validated table, joins the exchange rate by year and derives the
// output fields. It performs no I/O.
type RecordTransformer struct {
	rates *rate.Table
}

// NewRecordTransformer creates a transformer joining against rates.
func NewRecordTransformer(rates *rate.Table) *RecordTransformer {
	return &RecordTransformer{rates: rates}
}

// Transform converts every row of table. The first unparsable value aborts the whole table
// with a KindCast error naming the 1-based row, the column and the value.
func (t *RecordTransformer) Transform(table *domain.RawTable) ([]domain.TransformedRecord, error) {
	required := make(map[string]bool, len(schema.RequiredInputColumns))
	for _, c := range schema.RequiredInputColumns {
		required[c] = true
	}

	out := make([]domain.TransformedRecord, 0, table.Len())
	for i := range table.Rows {
		in, err := castRow(table, i, required)
		if err != nil {
			return nil, err
		}
		rec, err := t.derive(in, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func castError(row int, column, value string, cause error) error {
	return exception.NewBatchErrorf(transformerModule, exception.KindCast,
		"row %d, column %s: cannot convert %q", row, column, value, cause)
}

func castRow(table *domain.RawTable, i int, required map[string]bool) (domain.InputRecord, error) {
	row := i + 1
	in := domain.InputRecord{
		Date:                     table.Cell(i, schema.ColDate),
		Region:                   table.Cell(i, schema.ColRegion),
		SubRegion:                table.Cell(i, schema.ColSubRegion),
		FacilitySize:             table.Cell(i, schema.ColFacilitySize),
		TurbineNameplateCapacity: table.Cell(i, schema.ColTurbineNameplateCapacity),
		RotorDiameter:            table.Cell(i, schema.ColRotorDiameter),
		TowerHeight:              table.Cell(i, schema.ColTowerHeight),
		DriveTrain:               table.Cell(i, schema.ColDriveTrain),
		ForecastType:             table.Cell(i, schema.ColForecastType),
		CostElementCategory:      table.Cell(i, schema.ColCostElementCategory),
		CostElementSubcategory:   table.Cell(i, schema.ColCostElementSubcategory),
	}

	rawID := table.Cell(i, schema.ColSeriesInfoID)
	id, err := parseInteger(rawID)
	if err != nil {
		return in, castError(row, schema.ColSeriesInfoID, rawID, err)
	}
	in.SeriesInfoID = id

	rawDollars := table.Cell(i, schema.ColDollarsPerMW)
	dollars, err := parseNullableFloat(rawDollars)
	if err != nil {
		return in, castError(row, schema.ColDollarsPerMW, rawDollars, err)
	}
	in.DollarsPerMW = dollars

	for _, h := range table.Header {
		if required[h] {
			continue
		}
		if in.Extra == nil {
			in.Extra = make(map[string]string)
		}
		if _, dup := in.Extra[h]; !dup {
			in.Extra[h] = table.Cell(i, h)
		}
	}
	return in, nil
}

// parseInteger accepts integers and integral floats such as "3.0".
func parseInteger(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, strconv.ErrSyntax
	}
	return int64(f), nil
}

// parseNullableFloat maps empty and NaN input to nil.
func parseNullableFloat(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) {
		return nil, nil
	}
	return &f, nil
}

func scaled(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	r := *v * factor
	return &r
}

func (t *RecordTransformer) derive(in domain.InputRecord, row int) (domain.TransformedRecord, error) {
	if utf8.RuneCountInString(in.Date) < 4 {
		return domain.TransformedRecord{}, exception.NewBatchErrorf(transformerModule, exception.KindCast,
			"row %d, column %s: %q is shorter than 4 characters", row, schema.ColDate, in.Date)
	}
	year := string([]rune(in.Date)[:4])

	rec := domain.TransformedRecord{
		InputRecord:         in,
		Year:                year,
		DollarMW:            in.DollarsPerMW,
		CostElementFullQual: in.CostElementCategory + schema.CostElementSeparator + in.CostElementSubcategory,
	}
	rec.DollarKW = scaled(rec.DollarMW, schema.KiloFactor)
	rec.DollarW = scaled(rec.DollarMW, schema.UnitFactor)

	if multiplier, ok := t.rates.Lookup(year); ok {
		rec.RateMultiplier = &multiplier
		rec.EuroMW = scaled(rec.DollarMW, multiplier)
		rec.EuroKW = scaled(rec.EuroMW, schema.KiloFactor)
		rec.EuroW = scaled(rec.EuroMW, schema.UnitFactor)
	}
	return rec, nil
}
