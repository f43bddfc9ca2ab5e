package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/schoolfit/internal/contract"
	"github.com/huangsam/schoolfit/internal/iocache"
	"github.com/huangsam/schoolfit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errNoStore is returned by data commands when the backend is none.
var errNoStore = errors.New("no table store configured. Set --data-backend to sqlite, mysql or postgresql")

// dataBackendConfig reads and validates the store backend from viper.
func dataBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := readConfigFile(); err != nil {
		return "", "", err
	}
	connStr := viper.GetString("data-db-connect")
	backend, err := contract.ValidateBackend(viper.GetString("data-backend"), connStr)
	if err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// dataSetup loads minimal configuration needed for table store operations.
// Scoring settings are not validated, so a broken weight does not block an import.
func dataSetup() error {
	backend, connStr, err := dataBackendConfig()
	if err != nil {
		return err
	}
	if err := iocache.InitStore(backend, connStr); err != nil {
		return err
	}
	cfg.DataBackend = backend
	cfg.DataDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// dataSetupWrapper wraps dataSetup to provide PreRunE for data commands.
func dataSetupWrapper(_ *cobra.Command, _ []string) error {
	return dataSetup()
}

// dataMigrateSetup resolves the backend without opening the store, so
// migrations can run against a fresh or outdated database.
func dataMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := dataBackendConfig()
	if err != nil {
		return err
	}
	cfg.DataBackend = backend
	cfg.DataDBConnect = connStr
	return nil
}

// requireStore returns the global table store or fails when there is none.
func requireStore() contract.TableStore {
	store := iocache.Manager.GetTableStore()
	if store == nil {
		contract.LogFatal("Cannot access table store", errNoStore)
	}
	return store
}

// dataCmd focused on table store management.
//
// Note: Data subcommands use minimal initialization (dataSetup) instead of
// the full sharedSetup used by scoring commands.
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage the imported school table",
	Long: `Import the joined SARC table into a SQL store once, then run every command without a data file.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (always pass a file)

Subcommands:
  import  - Replace the stored table with a CSV or Parquet file
  status  - Show what is stored and where
  clear   - Remove all stored rows
  export  - Write the stored table back out as Parquet
  migrate - Run database schema migrations

Examples:
  # Import once, then rank without naming the file
  schoolfit data import sarc_master.parquet
  schoolfit schools --county Orange

  # Use PostgreSQL instead of the local SQLite file
  SCHOOLFIT_DATA_BACKEND=postgresql SCHOOLFIT_DATA_DB_CONNECT="host=localhost user=postgres dbname=schools" schoolfit data status`,
}

// dataImportCmd loads a file into the store.
var dataImportCmd = &cobra.Command{
	Use:   "import <data-file>",
	Short: "Replace the stored table with a CSV or Parquet file",
	Long: `Read a joined school table and store it under a new batch id, replacing the previous import.

CSV files must carry a header row; Parquet files are read by column name.
Rows without a district or school name are skipped and counted in the summary.

Examples:
  schoolfit data import sarc_master.csv
  schoolfit data import sarc_master.parquet --data-backend mysql --data-db-connect "user:pass@tcp(localhost:3306)/schools"`,
	Args:    cobra.ExactArgs(1),
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		summary, err := iocache.ImportFile(rootCtx, iocache.Manager, args[0])
		if err != nil {
			contract.LogFatal("Failed to import table", err)
		}
		iocache.PrintImportSummary(os.Stdout, summary)
	},
}

// dataStatusCmd shows store status.
var dataStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display table store statistics and connection details",
	Long: `Show the backend, batch, source file and row count of the stored table.

Examples:
  schoolfit data status`,
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := requireStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get table store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)
	},
}

// dataClearCmd clears the store.
var dataClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored rows",
	Long: `Delete every imported row from the configured backend. The schema is kept.

Examples:
  schoolfit data clear`,
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := requireStore().Clear(rootCtx); err != nil {
			contract.LogFatal("Failed to clear table store", err)
		}
		fmt.Println("Table store cleared successfully.")
	},
}

// dataExportCmd writes the stored table to Parquet.
var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored table to a Parquet file",
	Long: `Write the stored table to Parquet with the same column names import reads,
so the file can be passed back to any command as a data file.

Examples:
  schoolfit data export --output-file sarc_snapshot.parquet`,
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		n, err := iocache.ExportStoredTable(rootCtx, requireStore(), cfg.OutputFile)
		if err != nil {
			contract.LogFatal("Failed to export table", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Exported %d rows to %s\n", n, cfg.OutputFile)
	},
}

// dataMigrateCmd runs database migrations for the table store.
var dataMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the table store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  schoolfit data migrate

  # Roll back everything
  schoolfit data migrate --target-version 0`,
	PreRunE: dataMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStore(cfg.DataBackend, cfg.DataDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
