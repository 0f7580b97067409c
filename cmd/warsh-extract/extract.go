package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/warsh-extract/internal/pipeline"
	"github.com/pdiddy/warsh-extract/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract per-sura data files and the tajweed engine",
	Long: `Extract locates the WARSH_DATA object in the source HTML, decodes it
(quoting bare keys if strict JSON decoding fails), and writes data/<key>.json
for every sura. With --index, a table of contents (id, names, verse count)
is written to the given path as well. The first <script> block declaring the
engine function is written to engine.js; if there is none, a warning is
printed and the data files are still produced. Re-running overwrites every
output file.`,
	RunE: runExtract,
}

// extractKeys maps extract flags to their viper keys.
var extractKeys = map[string]string{
	"source":       "extract.source_file",
	"data-dir":     "extract.data_dir",
	"engine":       "extract.engine_file",
	"marker":       "extract.data_marker",
	"engine-func":  "extract.engine_function",
	"naive-braces": "extract.naive_braces",
	"index":        "extract.index_file",
}

func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", types.DefaultSourceFile, "HTML export containing WARSH_DATA")
	cmd.Flags().String("data-dir", types.DefaultDataDir, "directory for the per-sura JSON files")
	cmd.Flags().String("engine", types.DefaultEngineFile, "output path for the extracted tajweed engine")
	cmd.Flags().String("marker", types.DefaultDataMarker, "text that introduces the data object")
	cmd.Flags().String("engine-func", types.DefaultEngineFunction, "function name identifying the engine <script> block")
	cmd.Flags().Bool("naive-braces", false, "count braces inside strings and comments (legacy scanning)")
	cmd.Flags().String("index", "", "also write a JSON table of contents to this path")
}

// extractConfig resolves the extraction settings: flags set on the command
// line win, then config file and WARSH_EXTRACT_* environment values, then
// the flag defaults.
func extractConfig(flags *pflag.FlagSet) (types.ExtractConfig, error) {
	v := viper.GetViper()
	flags.VisitAll(func(f *pflag.Flag) {
		if key, ok := extractKeys[f.Name]; ok {
			v.BindPFlag(key, f)
			v.BindEnv(key, "WARSH_EXTRACT_"+strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")))
		}
	})

	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return types.ExtractConfig{}, fmt.Errorf("reading extract config: %w", err)
	}
	return cfg.Extract, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := extractConfig(cmd.Flags())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	summary, err := pipeline.Run(cmd.Context(), cfg, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d suras written to %s", summary.Suras, cfg.WithDefaults().DataDir)
	if summary.IndexPath != "" {
		fmt.Fprintf(out, ", index at %s", summary.IndexPath)
	}
	if !summary.EngineWritten {
		fmt.Fprint(out, " (engine not extracted)")
	}
	fmt.Fprintln(out)
	return nil
}

func init() {
	addExtractFlags(extractCmd)
	rootCmd.AddCommand(extractCmd)
}
