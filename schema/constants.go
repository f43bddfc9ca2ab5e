package schema

// Custom string types for type safety.
type (
	// MetricKey identifies a scoreable metric column in the school table.
	MetricKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// ComparisonMode represents how a metric is compared across entities.
	ComparisonMode string

	// Direction represents the preferred direction of a linear metric.
	Direction string

	// NormalizationMethod represents how raw values become [0,1] scores.
	NormalizationMethod string

	// EntityLevel represents whether results describe schools or districts.
	EntityLevel string

	// DatabaseBackend represents the database backend for the table store.
	DatabaseBackend string
)

// Metric keys carried by the joined school table.
const (
	MathKey           MetricKey = "SMATH_Y1" // math proficiency %
	ELAKey            MetricKey = "SELA_Y1"  // English language arts proficiency %
	ClassSizeKey      MetricKey = "AVG_SIZE" // average class size
	DisadvantagedKey  MetricKey = "PERDI"    // % socio-economically disadvantaged
	EnglishLearnerKey MetricKey = "PEREL"    // % English learners
	DisabilityKey     MetricKey = "PERSD"    // % students with disabilities
)

// Identifying column names in the joined school table.
const (
	CDSCodeColumn  = "CDSCode"
	CountyColumn   = "County"
	DistrictColumn = "District"
	SchoolColumn   = "School"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All comparison modes supported.
const (
	LinearMode ComparisonMode = "linear"
	TargetMode ComparisonMode = "target"
)

// All directions supported.
const (
	HigherIsBetter Direction = "higher"
	LowerIsBetter  Direction = "lower"
)

// All normalization methods supported.
const (
	PercentileMethod NormalizationMethod = "percentile" // default
	MinMaxMethod     NormalizationMethod = "minmax"
)

// All entity levels supported.
const (
	SchoolLevel   EntityLevel = "school"
	DistrictLevel EntityLevel = "district"
)

// All table store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // no store, data file required
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidNormalizationMethods lists all valid normalization methods.
var ValidNormalizationMethods = map[NormalizationMethod]struct{}{
	PercentileMethod: {},
	MinMaxMethod:     {},
}

// ValidDatabaseBackends lists all valid table store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// IdentityColumns lists the non-metric columns in their canonical order.
var IdentityColumns = []string{CDSCodeColumn, CountyColumn, DistrictColumn, SchoolColumn}
