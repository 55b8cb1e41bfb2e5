// Package schema is the single source of truth for the column sets the pipeline reads and
// writes. The validator, normalizer, parquet layout and SQL migrations are all checked
// against these lists.
package schema

import "embed"

// Version identifies the column contract below. Bump it together with a new migration.
const Version = 1

// Input columns.
const (
	ColSeriesInfoID             = "series_info_id"
	ColDate                     = "date"
	ColRegion                   = "region"
	ColSubRegion                = "sub_region"
	ColFacilitySize             = "facility_size"
	ColTurbineNameplateCapacity = "turbine_nameplate_capacity"
	ColRotorDiameter            = "rotor_diameter"
	ColTowerHeight              = "tower_height"
	ColDriveTrain               = "drive_train"
	ColForecastType             = "forecast_type"
	ColCostElementCategory      = "cost_element_category"
	ColCostElementSubcategory   = "cost_element_subcategory"
	ColDollarsPerMW             = "dollars_per_mw"
)

// Rate source columns.
const (
	ColYear           = "year"
	ColRateMultiplier = "rate_multiplier"
)

// Output columns produced by the transformer.
const (
	OutAssetType                 = "_fact_Asset_Type"
	OutRegion                    = "fact_Region"
	OutFacilitySize              = "fact_Facility_Size"
	OutDollarMW                  = "fact_Dollar_MW"
	OutDollarKW                  = "fact_Dollar_KW"
	OutDollarW                   = "fact_Dollar_W"
	OutPaymentDate               = "fact_Payment_Date"
	OutPATaxonomyFullQual        = "Dimension_PA_Taxonomy_FullQual"
	OutRawSupplier               = "fact_Raw_Supplier"
	OutSupplierHierarchyFullQual = "Dimension_Supplier_Hierarchy_FullQual"
	OutTimeFullQual              = "Dimension_Time_FullQual"
	OutCostElementFullQual       = "Dimension_Cost_Element_FullQual"
	OutSubRegion                 = "fact_Sub_Region"
	OutItem                      = "fact_Item"
	OutQuarter                   = "fact_Quarter"
	OutTurbineNameplateCapacity  = "fact_Turbine_Nameplate_Capacity"
	OutRotorDiameter             = "fact_Rotor_Diameter"
	OutTowerHeight               = "fact_Tower_Height"
	OutDriveTrain                = "fact_Drive_Train"
	OutEuroMW                    = "fact_Euro_MW"
	OutEuroKW                    = "fact_Euro_KW"
	OutEuroW                     = "fact_Euro_W"
	OutForecastType              = "Forecast_Type"
)

// Constant output values.
const (
	AssetType                 = "Wind CAPEX"
	PaymentDate               = "9/1/2022"
	PATaxonomyFullQual        = "Rotating Equipment>Wind Turbines>Wind Turbines"
	RawSupplier               = "NONE"
	SupplierHierarchyFullQual = "NONE"
	TimeFullQual              = "2022>2022 Q3>Sep 2022"
	CostElementSeparator      = ">"
)

// Unit scaling from per-MW values.
const (
	KiloFactor = 1e-3
	UnitFactor = 1e-6
)

// RequiredInputColumns must all be present in a source for it to be processed.
var RequiredInputColumns = []string{
	ColSeriesInfoID,
	ColDate,
	ColRegion,
	ColSubRegion,
	ColFacilitySize,
	ColTurbineNameplateCapacity,
	ColRotorDiameter,
	ColTowerHeight,
	ColDriveTrain,
	ColForecastType,
	ColCostElementCategory,
	ColCostElementSubcategory,
	ColDollarsPerMW,
}

// RateColumns are the columns kept from the exchange-rate source.
var RateColumns = []string{ColYear, ColRateMultiplier}

// CanonicalOutputColumns is the exact column order every sink receives.
var CanonicalOutputColumns = []string{
	"_fact_Asset_Type",
	"fact_Region",
	"fact_Module_Type",
	"fact_Facility_Size",
	"fact_Cost_Subcategory",
	"fact_Cost_Item",
	"fact_Dollar_MW",
	"fact_Dollar_KW",
	"fact_Dollar_W",
	"fact_Payment_Date",
	"Dimension_PA_Taxonomy_FullQual",
	"fact_Raw_Supplier",
	"Dimension_Supplier_Hierarchy_FullQual",
	"Dimension_Time_FullQual",
	"Dimension_Cost_Element_FullQual",
	"fact_Sub_Region",
	"fact_Module_Origin",
	"fact_Racking_Type",
	"fact_Inverter_Type",
	"fact_Power_Type",
	"fact_Asset_Age__Years_",
	"fact_Item",
	"fact_Quarter",
	"fact_Currency",
	"fact_Real_Year",
	"fact_Turbine_Nameplate_Capacity",
	"fact_Rotor_Diameter",
	"fact_Tower_Height",
	"fact_Drive_Train",
	"fact_Battery_Type",
	"fact_Battery_Duration",
	"fact_Dollar_Wh",
	"fact_Euro_MW",
	"fact_Euro_KW",
	"fact_Euro_W",
	"fact_Labor_Type",
	"fact_Tariff",
	"fact_Dollar_KWH",
	"fact_Dollar_MWH",
	"Euro_WH",
	"Euro_KWH",
	"Euro_MWH",
	"fact_Capacity_Guarantee",
	"Wafer_Type",
	"Dispatch_Power",
	"COD",
	"Incoterm",
	"Forecast_Type",
	"Voltage_kV",
	"Power_Rating",
	"Control_Building",
	"Length_of_Line",
	"Circuit_Type",
	"Total_Cost",
	"Total_Cost_Euro",
	"Veg_Mgmt",
	"iso_rto",
}

// NumericOutputColumns are stored as floating point columns. Every other canonical column is text.
var NumericOutputColumns = []string{
	OutDollarMW, OutDollarKW, OutDollarW,
	OutEuroMW, OutEuroKW, OutEuroW,
}

// DefaultTableName is the relational table written by the SQL sink.
const DefaultTableName = "wind_capex_data"

// MigrationsTable tracks applied schema migrations.
const MigrationsTable = "windcapex_schema_migrations"

// Migrations holds the DDL for the output table, one directory per database type.
//
//go:embed migrations
var Migrations embed.FS

// IsNumeric reports whether column is stored as a float.
func IsNumeric(column string) bool {
	for _, c := range NumericOutputColumns {
		if c == column {
			return true
		}
	}
	return false
}

// CanonicalIndex returns the position of column in CanonicalOutputColumns, or -1.
func CanonicalIndex(column string) int {
	for i, c := range CanonicalOutputColumns {
		if c == column {
			return i
		}
	}
	return -1
}

// MigrationsPath returns the directory of Migrations holding the DDL for dbType.
func MigrationsPath(dbType string) string {
	return "migrations/" + dbType
}
