package test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// CapexHeader is the header line of a complete input source.
const CapexHeader = "series_info_id,date,region,sub_region,facility_size,turbine_nameplate_capacity,rotor_diameter,tower_height,drive_train,forecast_type,cost_element_category,cost_element_subcategory,dollars_per_mw\n"

// Sample input rows. CapexRowWest is dated 2022, CapexRowEast 2023.
const (
	CapexRowWest = "1,2022Q3,West,CA,Large,3MW,120m,90m,Direct,Base,Turbine,Blade,1000000.0\n"
	CapexRowEast = "2,2023Q1,East,NY,Small,2MW,100m,80m,Geared,High,BOS,Foundation,500000\n"
)

// RatesCSV holds multipliers for both sample years.
const RatesCSV = "year,rate_multiplier,note\n2022,0.92,x\n2023,0.5,y\n"

// CapexCSV joins CapexHeader and rows into a source body.
func CapexCSV(rows ...string) string {
	return CapexHeader + strings.Join(rows, "")
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
