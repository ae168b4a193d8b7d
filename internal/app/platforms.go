package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"postcraft.app/postcraft/internal/catalog"
)

func runPlatforms(args []string) int {
	fs := flag.NewFlagSet("platforms", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	platforms := catalog.Platforms()
	if outputFormat == outputFormatJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(platforms); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode platforms: %v\n", err)
			return 1
		}
		return 0
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tMAX LENGTH\tTONE\tEMOJIS\tHASHTAG LIMIT")
	for _, platform := range platforms {
		emojis := "yes"
		if !platform.IncludeEmojis {
			emojis = "no"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\n",
			platform.Name, platform.MaxContentLength, platform.TonePolicy, emojis, platform.HashtagLimit)
	}
	_ = w.Flush()
	return 0
}
