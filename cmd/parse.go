package cmd

import (
	"fmt"
	"os"

	"github.com/kayz/promptfile/internal/logger"
	"github.com/kayz/promptfile/internal/prompt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	parseOutput string
	formatWrite bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the records of a prompt file as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, profile, err := loadRecords(cmd, args[0])
		if err != nil {
			return err
		}
		logger.Debug("parsed %d record(s) from %s with profile %s", len(records), args[0], profile)
		if records == nil {
			records = []prompt.Record{}
		}

		switch parseOutput {
		case "json":
			return writeJSON(cmd, records)
		case "yaml":
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(records)
		default:
			return fmt.Errorf("unsupported output %q: use json or yaml", parseOutput)
		}
	},
}

var formatCmd = &cobra.Command{
	Use:   "format FILE",
	Short: "Parse a prompt file and write it back in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, _, err := loadRecords(cmd, args[0])
		if err != nil {
			return err
		}
		out := prompt.Serialize(records)

		if !formatWrite || args[0] == "-" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		if err := os.WriteFile(args[0], []byte(out+"\n"), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.Info("formatted %s (%d record(s))", args[0], len(records))
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "json", "Output format: json, yaml")
	formatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "Write the result back to FILE instead of stdout")
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(formatCmd)
}
