package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/vi-screen/config"
	"github.com/lixenwraith/vi-screen/junction"
)

func newJunctionsCmd(opts *rootOptions) *cobra.Command {
	var line string
	cmd := &cobra.Command{
		Use:   "junctions",
		Short: "Print the glyph chosen for every separator arm pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if line != "" {
				cfg.Junction.LineType = line
			}
			cc, err := cfg.Compositor()
			if err != nil {
				return err
			}
			return writeJunctionTable(cmd.OutOrStdout(), junction.NewCache(cc.Glyphs))
		},
	}
	cmd.Flags().StringVarP(&line, "line", "l", "", "line type: single, double, rounded, heavy or ascii")
	return cmd
}

func writeJunctionTable(w io.Writer, glyphs *junction.Cache) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tARMS\tSTYLE\tGLYPH")
	for p := junction.Pattern(0); p < junction.PatternCount; p++ {
		glyph := " "
		if r := glyphs.Glyph(p); r != 0 {
			glyph = string(r)
		}
		fmt.Fprintf(tw, "%#02x\t%s\t%s\t%s\n", uint8(p), p, junction.Resolve(p), glyph)
	}
	return tw.Flush()
}
