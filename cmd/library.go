package cmd

import (
	"fmt"
	"time"

	"github.com/kayz/promptfile/internal/library"
	"github.com/kayz/promptfile/internal/logger"
	"github.com/kayz/promptfile/internal/prompt"
	"github.com/spf13/cobra"
)

var libraryJSON bool

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Store and retrieve prompt files in the local SQLite library",
}

var libraryPutCmd = &cobra.Command{
	Use:   "put NAME FILE",
	Short: "Parse FILE and store it under NAME",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, profile, err := loadRecords(cmd, args[1])
		if err != nil {
			return err
		}
		return withLibrary(func(store *library.Store) error {
			entry, err := store.Put(cmd.Context(), args[0], profile, records)
			if err != nil {
				return err
			}
			logger.Info("stored %s (%d record(s), id %s)", entry.Name, entry.Records, entry.ID)
			return nil
		})
	},
}

var libraryGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Print a stored prompt file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(func(store *library.Store) error {
			_, records, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if libraryJSON {
				if records == nil {
					records = []prompt.Record{}
				}
				return writeJSON(cmd, records)
			}
			fmt.Fprintln(cmd.OutOrStdout(), prompt.Serialize(records))
			return nil
		})
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored prompt files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(func(store *library.Store) error {
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if libraryJSON {
				if entries == nil {
					entries = []library.Entry{}
				}
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No prompt files stored.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "- %s [%s] records=%d (updated %s)\n",
					e.Name, e.Profile, e.Records, e.UpdatedAt.Local().Format(time.DateTime))
			}
			return nil
		})
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Remove a stored prompt file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(func(store *library.Store) error {
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			logger.Info("deleted %s", args[0])
			return nil
		})
	},
}

func withLibrary(fn func(*library.Store) error) error {
	path := appConfig.Library.Path
	logger.Debug("opening library at %s", path)
	store, err := library.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func init() {
	libraryGetCmd.Flags().BoolVar(&libraryJSON, "json", false, "Print records as JSON")
	libraryListCmd.Flags().BoolVar(&libraryJSON, "json", false, "Print entries as JSON")
	libraryCmd.AddCommand(libraryPutCmd, libraryGetCmd, libraryListCmd, libraryDeleteCmd)
	rootCmd.AddCommand(libraryCmd)
}
