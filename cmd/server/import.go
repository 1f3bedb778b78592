package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/database"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/importer"
)

func newImportCmd(v *viper.Viper) *cobra.Command {
	var (
		path   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import-questions",
		Short: "Import questions from an .xlsx workbook (label, description, answer).",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			questions, rowErrors, err := importer.ReadQuestions(f)
			if err != nil {
				return err
			}
			for _, rowErr := range rowErrors {
				fmt.Fprintln(cmd.ErrOrStderr(), rowErr.Error())
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d questions valid, %d rows rejected\n", len(questions), len(rowErrors))
				return nil
			}

			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			added, err := database.SeedQuestions(db.WithContext(cmd.Context()), questions)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d added, %d skipped, %d rows rejected\n", added, len(questions)-added, len(rowErrors))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "path to the .xlsx workbook")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the workbook without touching the store")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
