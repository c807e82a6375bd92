package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column Mismatch Report Usage:

Lists database columns that no field of the corresponding model maps to. Columns like these
are usually left behind by a renamed field and are never read or written by the API.

To generate the report:

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run .

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: contacts ---
Found 1 columns not accounted for in model:
  - legacy_subject

--- Table: projects ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Settings{},
		&Project{},
		&Skill{},
		&Experience{},
		&Contact{},
		&Image{},
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// GenerateModels migrates the schema, prints the column report and writes typed query helpers to ./generated.
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	verboseLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verboseLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	fmt.Println("Migrating models...")
	if err := Migrate(db); err != nil {
		return err
	}
	fmt.Println("Database migration completed successfully!")

	if _, err := GenerateColumnMismatchReport(db, os.Stdout); err != nil {
		return err
	}

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport writes the report to w and returns the unmapped columns keyed by table.
func GenerateColumnMismatchReport(db *gorm.DB, w io.Writer) (map[string][]string, error) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	result := make(map[string][]string)
	total := 0

	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		fmt.Fprintf(w, "\n--- Table: %s ---\n", table)

		if !db.Migrator().HasTable(table) {
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("read columns of %s: %w", table, err)
		}

		mapped := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			mapped[name] = true
		}

		var mismatches []string
		for _, ct := range columnTypes {
			if !mapped[ct.Name()] {
				mismatches = append(mismatches, ct.Name())
			}
		}
		sort.Strings(mismatches)

		if len(mismatches) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}

		fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(w, "  - %s\n", col)
		}
		result[table] = mismatches
		total += len(mismatches)
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
	return result, nil
}
