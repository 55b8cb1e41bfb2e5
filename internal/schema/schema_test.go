package schema

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertUnique(t *testing.T, cols []string) {
	t.Helper()
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		assert.False(t, seen[c], "duplicate column %q", c)
		seen[c] = true
	}
}

func TestColumnSets(t *testing.T) {
	assert.Len(t, RequiredInputColumns, 13)
	assert.Equal(t, []string{"year", "rate_multiplier"}, RateColumns)
	assert.Len(t, CanonicalOutputColumns, 57)
	assert.Equal(t, "_fact_Asset_Type", CanonicalOutputColumns[0])
	assert.Equal(t, "iso_rto", CanonicalOutputColumns[len(CanonicalOutputColumns)-1])

	assertUnique(t, RequiredInputColumns)
	assertUnique(t, CanonicalOutputColumns)
}

func TestProducedColumnsAreCanonical(t *testing.T) {
	produced := []string{
		OutAssetType, OutRegion, OutFacilitySize, OutDollarMW, OutDollarKW, OutDollarW,
		OutPaymentDate, OutPATaxonomyFullQual, OutRawSupplier, OutSupplierHierarchyFullQual,
		OutTimeFullQual, OutCostElementFullQual, OutSubRegion, OutItem, OutQuarter,
		OutTurbineNameplateCapacity, OutRotorDiameter, OutTowerHeight, OutDriveTrain,
		OutEuroMW, OutEuroKW, OutEuroW, OutForecastType,
	}
	for _, c := range produced {
		assert.GreaterOrEqual(t, CanonicalIndex(c), 0, c)
	}
	for _, c := range NumericOutputColumns {
		assert.True(t, IsNumeric(c))
	}
	assert.False(t, IsNumeric(OutRegion))
	assert.Equal(t, -1, CanonicalIndex("year"))
}

func TestMigrationsCoverCanonicalColumns(t *testing.T) {
	for _, dialect := range []string{"postgres", "mysql", "sqlite"} {
		up, err := fs.ReadFile(Migrations, "migrations/"+dialect+"/000001_create_wind_capex_data.up.sql")
		require.NoError(t, err, dialect)
		ddl := string(up)
		assert.Contains(t, ddl, DefaultTableName, dialect)
		for _, c := range CanonicalOutputColumns {
			assert.True(t, strings.Contains(ddl, c+"\" ") || strings.Contains(ddl, c+"` "), "%s: column %s missing", dialect, c)
		}

		down, err := fs.ReadFile(Migrations, "migrations/"+dialect+"/000001_create_wind_capex_data.down.sql")
		require.NoError(t, err, dialect)
		assert.Contains(t, string(down), "DROP TABLE")
	}
}
