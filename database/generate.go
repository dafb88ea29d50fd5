package database

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Query generation and column report.

Run with GENERATE_MODELS=true to migrate the tables and write typed query helpers to
./generated. Run with GENERATE_COLUMN_REPORT=true to list columns that exist in the
database but are not mapped by any row struct, which is what happens when the hosted
dashboard is used to add a column by hand.
*/

// GenerateQueries migrates every row type and generates gorm/gen query helpers for them.
func GenerateQueries(db *gorm.DB, outPath string) error {
	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel: logger.Info,
			Colorful: true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate before generating: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(AllRows()...)
	g.Execute()
	return nil
}

// ColumnMismatches maps each table to the database columns its row struct does not map.
// Tables without unmapped columns are left out.
func ColumnMismatches(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)

	for _, row := range AllRows() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(row); err != nil {
			return nil, fmt.Errorf("parse %T: %w", row, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			continue
		}
		columns, err := db.Migrator().ColumnTypes(table)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", table, err)
		}

		mapped := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			mapped[name] = true
		}

		var missing []string
		for _, col := range columns {
			if !mapped[col.Name()] {
				missing = append(missing, col.Name())
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			report[table] = missing
		}
	}

	return report, nil
}

// PrintColumnReport writes the ColumnMismatches report to stdout
func PrintColumnReport(db *gorm.DB) error {
	report, err := ColumnMismatches(db)
	if err != nil {
		return err
	}

	fmt.Println("=== COLUMN MISMATCH REPORT ===")
	total := 0
	for _, row := range AllRows() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(row); err != nil {
			return err
		}
		table := stmt.Schema.Table
		fmt.Printf("\n--- Table: %s ---\n", table)
		missing := report[table]
		if len(missing) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		fmt.Printf("Found %d columns not accounted for in model:\n", len(missing))
		for _, col := range missing {
			fmt.Printf("  - %s\n", col)
		}
		total += len(missing)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
	return nil
}
