package cmd

import (
	"fmt"
	"strings"

	"github.com/kayz/promptfile/internal/adapter"
	"github.com/kayz/promptfile/internal/options"
	"github.com/kayz/promptfile/internal/prompt"
	"github.com/spf13/cobra"
)

var (
	projectVendor   string
	projectIndex    int
	projectDefaults bool
	requestModel    string
)

var projectCmd = &cobra.Command{
	Use:   "project FILE",
	Short: "Print the options of one record in a vendor's shape",
	Long: `Print the options of one record mapped onto a vendor's option names.

Vendors: ` + strings.Join(adapter.Vendors(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, opts, err := selectRecord(cmd, args[0])
		if err != nil {
			return err
		}

		out, err := adapter.Project(projectVendor, opts)
		if err != nil {
			return err
		}
		return writeJSON(cmd, out)
	},
}

var requestCmd = &cobra.Command{
	Use:   "request FILE",
	Short: "Print the OpenAI or Anthropic request body for one record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if requestModel == "" {
			return fmt.Errorf("--model is required")
		}
		rec, opts, err := selectRecord(cmd, args[0])
		if err != nil {
			return err
		}

		switch strings.ToLower(projectVendor) {
		case adapter.VendorOpenAI:
			return writeJSON(cmd, adapter.OpenAIRequest(requestModel, rec, opts))
		case "anthropic":
			return writeJSON(cmd, adapter.AnthropicRequest(requestModel, rec, opts))
		default:
			return fmt.Errorf("%w: %q (request supports openai, anthropic)", adapter.ErrUnknownVendor, projectVendor)
		}
	},
}

// selectRecord loads FILE and returns the chosen record with its options,
// revalidated with defaults when --defaults is set.
func selectRecord(cmd *cobra.Command, path string) (prompt.Record, *options.Options, error) {
	records, profile, err := loadRecords(cmd, path)
	if err != nil {
		return prompt.Record{}, nil, err
	}
	rec, err := pickRecord(records, projectIndex)
	if err != nil {
		return prompt.Record{}, nil, err
	}

	opts := rec.Options
	if projectDefaults {
		opts = options.DefaultValidator().Revalidate(profile, opts, true)
	}
	return rec, opts, nil
}

func init() {
	for _, c := range []*cobra.Command{projectCmd, requestCmd} {
		c.Flags().StringVar(&projectVendor, "vendor", adapter.VendorOpenAI, "Target vendor")
		c.Flags().IntVar(&projectIndex, "index", 0, "Zero-based record index in FILE")
		c.Flags().BoolVar(&projectDefaults, "defaults", false, "Fill in profile defaults for unset options")
		rootCmd.AddCommand(c)
	}
	requestCmd.Flags().StringVar(&requestModel, "model", "", "Model name to put in the request")
}
