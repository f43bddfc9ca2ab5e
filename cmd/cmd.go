// Package cmd defines the command-line interface for schoolfit.
package cmd

import (
	"github.com/huangsam/schoolfit/core/algo"
	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(schoolsCmd)
	rootCmd.AddCommand(districtsCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the catalog subcommands to the parent list command
	listCmd.AddCommand(listCountiesCmd)
	listCmd.AddCommand(listDistrictsCmd)
	listCmd.AddCommand(listSchoolsCmd)

	// Add the store subcommands to the parent data command
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataStatusCmd)
	dataCmd.AddCommand(dataClearCmd)
	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataMigrateCmd)

	configCmd.AddCommand(configInitCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data", "", "Path to the joined school table (.csv or .parquet); defaults to the table store")
	rootCmd.PersistentFlags().String("data-backend", string(schema.SQLiteBackend), "Table store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("data-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().StringP("county", "c", "", "Restrict results to one county")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("detail", false, "Print raw metric columns")
	rootCmd.PersistentFlags().Bool("explain", false, "Print the metrics that matched best for each result")
	rootCmd.PersistentFlags().Float64("scale", algo.DefaultScale, "Upper bound of the score scale")
	rootCmd.PersistentFlags().Float64("exponent", algo.DefaultExponent, "Curve exponent applied to normalized scores (1 = no curve)")
	rootCmd.PersistentFlags().String("method", string(schema.PercentileMethod), "Normalization method: percentile or minmax")
	rootCmd.PersistentFlags().StringSlice("weight", nil, "Weight overrides as KEY=N, e.g. SMATH_Y1=10,AVG_SIZE=0")
	rootCmd.PersistentFlags().StringSlice("target", nil, "Target overrides as KEY=Label or KEY=Percent, e.g. PERDI=Mixed")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of compareCmd to Viper
	compareCmd.Flags().StringArray("select", nil, "Selection as 'District/School', or 'District' with --by-district (repeatable)")
	compareCmd.Flags().Bool("by-district", false, "Compare districts instead of schools")
	if err := viper.BindPFlags(compareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// Bind all flags of listSchoolsCmd to Viper
	listSchoolsCmd.Flags().StringP("district", "d", "", "Restrict the listing to one district")
	if err := viper.BindPFlags(listSchoolsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding list flags", err)
	}

	// Bind all flags of dataMigrateCmd to Viper
	dataMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dataMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding data migrate flags", err)
	}

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
