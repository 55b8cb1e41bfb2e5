package domain

import (
	"strconv"

	"github.com/tigerroll/windcapex/internal/schema"
)

// InputRecord is one typed source row.
type InputRecord struct {
	SeriesInfoID             int64
	Date                     string
	Region                   string
	SubRegion                string
	FacilitySize             string
	TurbineNameplateCapacity string
	RotorDiameter            string
	TowerHeight              string
	DriveTrain               string
	ForecastType             string
	CostElementCategory      string
	CostElementSubcategory   string
	DollarsPerMW             *float64
	// Extra holds non-required source columns by name.
	Extra map[string]string
}

// TransformedRecord is an InputRecord joined with its rate and carrying every derived field.
type TransformedRecord struct {
	InputRecord

	Year           string
	RateMultiplier *float64

	DollarMW *float64
	DollarKW *float64
	DollarW  *float64
	EuroMW   *float64
	EuroKW   *float64
	EuroW    *float64

	CostElementFullQual string
}

// Record is a row keyed by column name.
type Record map[string]Value

func text(s string) Value { return String(s) }

// Columns exposes the record under both source and output names. Extra source columns are
// included unless a derived column of the same name exists.
func (r TransformedRecord) Columns() Record {
	rec := make(Record, len(r.Extra)+40)
	for name, v := range r.Extra {
		if v == "" {
			rec[name] = Null()
			continue
		}
		rec[name] = text(v)
	}

	rec[schema.ColSeriesInfoID] = text(strconv.FormatInt(r.SeriesInfoID, 10))
	rec[schema.ColDate] = text(r.Date)
	rec[schema.ColRegion] = text(r.Region)
	rec[schema.ColSubRegion] = text(r.SubRegion)
	rec[schema.ColFacilitySize] = text(r.FacilitySize)
	rec[schema.ColTurbineNameplateCapacity] = text(r.TurbineNameplateCapacity)
	rec[schema.ColRotorDiameter] = text(r.RotorDiameter)
	rec[schema.ColTowerHeight] = text(r.TowerHeight)
	rec[schema.ColDriveTrain] = text(r.DriveTrain)
	rec[schema.ColForecastType] = text(r.ForecastType)
	rec[schema.ColCostElementCategory] = text(r.CostElementCategory)
	rec[schema.ColCostElementSubcategory] = text(r.CostElementSubcategory)
	rec[schema.ColDollarsPerMW] = NullableFloat(r.DollarsPerMW)
	rec[schema.ColYear] = text(r.Year)
	rec[schema.ColRateMultiplier] = NullableFloat(r.RateMultiplier)

	rec[schema.OutAssetType] = text(schema.AssetType)
	rec[schema.OutRegion] = text(r.Region)
	rec[schema.OutQuarter] = text(r.Date)
	rec[schema.OutFacilitySize] = text(r.FacilitySize)
	rec[schema.OutDollarMW] = NullableFloat(r.DollarMW)
	rec[schema.OutDollarKW] = NullableFloat(r.DollarKW)
	rec[schema.OutDollarW] = NullableFloat(r.DollarW)
	rec[schema.OutPaymentDate] = text(schema.PaymentDate)
	rec[schema.OutPATaxonomyFullQual] = text(schema.PATaxonomyFullQual)
	rec[schema.OutRawSupplier] = text(schema.RawSupplier)
	rec[schema.OutSupplierHierarchyFullQual] = text(schema.SupplierHierarchyFullQual)
	rec[schema.OutTimeFullQual] = text(schema.TimeFullQual)
	rec[schema.OutCostElementFullQual] = text(r.CostElementFullQual)
	rec[schema.OutSubRegion] = text(r.SubRegion)
	rec[schema.OutItem] = text(r.CostElementSubcategory)
	rec[schema.OutTurbineNameplateCapacity] = text(r.TurbineNameplateCapacity)
	rec[schema.OutRotorDiameter] = text(r.RotorDiameter)
	rec[schema.OutTowerHeight] = text(r.TowerHeight)
	rec[schema.OutDriveTrain] = text(r.DriveTrain)
	rec[schema.OutForecastType] = text(r.ForecastType)
	rec[schema.OutEuroMW] = NullableFloat(r.EuroMW)
	rec[schema.OutEuroKW] = NullableFloat(r.EuroKW)
	rec[schema.OutEuroW] = NullableFloat(r.EuroW)
	return rec
}

// OutputRow is a row aligned with Batch.Columns.
type OutputRow []Value

// Batch is a set of rows sharing one column list.
type Batch struct {
	Columns []string
	Rows    []OutputRow
}

// NewBatch returns an empty batch with the given columns.
func NewBatch(columns []string) Batch {
	return Batch{Columns: columns}
}

// Len returns the number of rows.
func (b Batch) Len() int { return len(b.Rows) }

// Append adds the rows of other. Both batches must share the column list.
func (b *Batch) Append(other Batch) {
	if b.Columns == nil {
		b.Columns = other.Columns
	}
	b.Rows = append(b.Rows, other.Rows...)
}

// Get returns the cell of column in row i, or Null for an unknown column.
func (b Batch) Get(i int, column string) Value {
	for j, c := range b.Columns {
		if c == column {
			return b.Rows[i][j]
		}
	}
	return Null()
}
