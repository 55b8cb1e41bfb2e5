package writer

// ParquetRow is the Parquet layout of one output row. Field order and names follow the
// canonical output columns; every field is OPTIONAL so nulls survive the export.
type ParquetRow struct {
	FactAssetType                      *string  `parquet:"name=_fact_Asset_Type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactRegion                         *string  `parquet:"name=fact_Region, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactModuleType                     *string  `parquet:"name=fact_Module_Type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactFacilitySize                   *string  `parquet:"name=fact_Facility_Size, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactCostSubcategory                *string  `parquet:"name=fact_Cost_Subcategory, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactCostItem                       *string  `parquet:"name=fact_Cost_Item, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactDollarMW                       *float64 `parquet:"name=fact_Dollar_MW, type=DOUBLE, repetitiontype=OPTIONAL"`
	FactDollarKW                       *float64 `parquet:"name=fact_Dollar_KW, type=DOUBLE, repetitiontype=OPTIONAL"`
	FactDollarW                        *float64 `parquet:"name=fact_Dollar_W, type=DOUBLE, repetitiontype=OPTIONAL"`
	FactPaymentDate                    *string  `parquet:"name=fact_Payment_Date, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	DimensionPATaxonomyFullQual        *string  `parquet:"name=Dimension_PA_Taxonomy_FullQual, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactRawSupplier                    *string  `parquet:"name=fact_Raw_Supplier, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	DimensionSupplierHierarchyFullQual *string  `parquet:"name=Dimension_Supplier_Hierarchy_FullQual, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	DimensionTimeFullQual              *string  `parquet:"name=Dimension_Time_FullQual, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	DimensionCostElementFullQual       *string  `parquet:"name=Dimension_Cost_Element_FullQual, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactSubRegion                      *string  `parquet:"name=fact_Sub_Region, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactModuleOrigin                   *string  `parquet:"name=fact_Module_Origin, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactRackingType                    *string  `parquet:"name=fact_Racking_Type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactInverterType                   *string  `parquet:"name=fact_Inverter_Type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactPowerType                      *string  `parquet:"name=fact_Power_Type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactAssetAgeYears                  *string  `parquet:"name=fact_Asset_Age__Years_, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactItem                           *string  `parquet:"name=fact_Item, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactQuarter                        *string  `parquet:"name=fact_Quarter, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactCurrency                       *string  `parquet:"name=fact_Currency, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactRealYear                       *string  `parquet:"name=fact_Real_Year, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactTurbineNameplateCapacity       *string  `parquet:"name=fact_Turbine_Nameplate_Capacity, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactRotorDiameter                  *string  `parquet:"name=fact_Rotor_Diameter, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactTowerHeight                    *string  `parquet:"name=fact_Tower_Height, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactDriveTrain                     *string  `parquet:"name=fact_Drive_Train, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactBatteryType                    *string  `parquet:"name=fact_Battery_Type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactBatteryDuration                *string  `parquet:"name=fact_Battery_Duration, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactDollarWh                       *string  `parquet:"name=fact_Dollar_Wh, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactEuroMW                         *float64 `parquet:"name=fact_Euro_MW, type=DOUBLE, repetitiontype=OPTIONAL"`
	FactEuroKW                         *float64 `parquet:"name=fact_Euro_KW, type=DOUBLE, repetitiontype=OPTIONAL"`
	FactEuroW                          *float64 `parquet:"name=fact_Euro_W, type=DOUBLE, repetitiontype=OPTIONAL"`
	FactLaborType                      *string  `parquet:"name=fact_Labor_Type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactTariff                         *string  `parquet:"name=fact_Tariff, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactDollarKWH                      *string  `parquet:"name=fact_Dollar_KWH, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactDollarMWH                      *string  `parquet:"name=fact_Dollar_MWH, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	EuroWH                             *string  `parquet:"name=Euro_WH, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	EuroKWH                            *string  `parquet:"name=Euro_KWH, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	EuroMWH                            *string  `parquet:"name=Euro_MWH, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	FactCapacityGuarantee              *string  `parquet:"name=fact_Capacity_Guarantee, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	WaferType                          *string  `parquet:"name=Wafer_Type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	DispatchPower                      *string  `parquet:"name=Dispatch_Power, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	COD                                *string  `parquet:"name=COD, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Incoterm                           *string  `parquet:"name=Incoterm, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	ForecastType                       *string  `parquet:"name=Forecast_Type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	VoltageKV                          *string  `parquet:"name=Voltage_kV, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	PowerRating                        *string  `parquet:"name=Power_Rating, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	ControlBuilding                    *string  `parquet:"name=Control_Building, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	LengthOfLine                       *string  `parquet:"name=Length_of_Line, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	CircuitType                        *string  `parquet:"name=Circuit_Type, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	TotalCost                          *string  `parquet:"name=Total_Cost, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	TotalCostEuro                      *string  `parquet:"name=Total_Cost_Euro, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	VegMgmt                            *string  `parquet:"name=Veg_Mgmt, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	IsoRto                             *string  `parquet:"name=iso_rto, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
}
