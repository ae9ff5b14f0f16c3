package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/classboard/internal/provider"
)

func newCacheCommand(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local register cache",
	}
	cmd.AddCommand(newCacheClearCommand(app))
	return cmd
}

func newCacheClearCommand(app *AppContext) *cobra.Command {
	var student string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached register data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return err
			}
			logger, closer := setupLogger(cfg)
			if closer != nil {
				defer closer.Close()
			}

			cache, err := openCache(cfg, logger)
			if err != nil {
				return err
			}
			defer cache.Close()

			if student == "" {
				cache.InvalidateAll()
				fmt.Fprintln(app.IO.Out, "Cache cleared")
				return nil
			}
			for _, prefix := range provider.StudentPrefixes(student) {
				cache.InvalidatePrefix(prefix)
			}
			fmt.Fprintf(app.IO.Out, "Cache cleared for student %s\n", student)
			return nil
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "Only clear the data of this student id")
	return cmd
}
