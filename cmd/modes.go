package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xvierd/pomo-cli/internal/domain"
)

var (
	modesJSON bool
	modesYAML bool
)

// modeInfo is the listing entry for one timer mode.
type modeInfo struct {
	Name    string `json:"name" yaml:"name"`
	Label   string `json:"label" yaml:"label"`
	Seconds int    `json:"seconds" yaml:"seconds"`
	Clock   string `json:"clock" yaml:"clock"`
}

var modesCmd = &cobra.Command{
	Use:         "modes",
	Short:       "List the timer modes and their durations",
	Annotations: map[string]string{skipServicesAnnotation: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if modesJSON && modesYAML {
			return fmt.Errorf("--json and --yaml are mutually exclusive")
		}

		infos := make([]modeInfo, 0, len(domain.Modes))
		for _, m := range domain.Modes {
			infos = append(infos, modeInfo{
				Name:    string(m),
				Label:   m.Label(),
				Seconds: m.DefaultSeconds(),
				Clock:   domain.FormatClock(m.DefaultSeconds()),
			})
		}

		out := cmd.OutOrStdout()
		switch {
		case modesJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(infos)
		case modesYAML:
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(infos); err != nil {
				return fmt.Errorf("failed to encode modes: %w", err)
			}
			return enc.Close()
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLABEL\tDURATION")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Label, info.Clock)
		}
		return w.Flush()
	},
}

func init() {
	modesCmd.Flags().BoolVar(&modesJSON, "json", false, "Output in JSON format")
	modesCmd.Flags().BoolVar(&modesYAML, "yaml", false, "Output in YAML format")
}
