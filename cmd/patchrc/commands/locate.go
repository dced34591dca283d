package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/pkg/span"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// NewLocateCmd creates a new locate command
func NewLocateCmd() *cobra.Command {
	var (
		file       string
		anchor     string
		delimiters string
		offset     int
		depth      int
		show       bool
	)

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Print where a balanced span ends",
		Long: `Locate scans a file for the end of a delimiter-balanced span and prints
the exclusive end offset in bytes. The scan starts either right after the
first occurrence of --anchor or at --offset. Without --depth the starting
depth is what the anchor leaves open, or 1 for --offset.`,
		Example: `  patchrc locate --file app/page.js --anchor "messages.map((message, index) => ("
  patchrc locate --file main.go --offset 120 --delimiters "{}" --show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := span.ParseDelimiters(delimiters)
			if err != nil {
				return err
			}

			content, err := os.ReadFile(file)
			if err != nil {
				return errors.Errorf("reading %s: %w", file, err)
			}

			start, end, err := locate(string(content), anchor, offset, depth, d)
			if err != nil {
				return err
			}

			zerolog.Ctx(cmd.Context()).Debug().
				Str("file", file).
				Int("start", start).
				Int("end", end).
				Msg("span located")

			fmt.Fprintln(cmd.OutOrStdout(), end)
			if show {
				fmt.Fprintln(cmd.OutOrStdout(), string(content[start:end]))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file to scan")
	cmd.Flags().StringVarP(&anchor, "anchor", "a", "", "text the span starts with")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "byte offset to start scanning at")
	cmd.Flags().IntVar(&depth, "depth", 0, "delimiters already open at the start")
	cmd.Flags().StringVar(&delimiters, "delimiters", "()", "open and close delimiter")
	cmd.Flags().BoolVar(&show, "show", false, "also print the located span")

	_ = cmd.MarkFlagRequired("file")
	cmd.MarkFlagsMutuallyExclusive("anchor", "offset")
	cmd.MarkFlagsOneRequired("anchor", "offset")

	return cmd
}

// locate returns the start of the span and its exclusive end
func locate(content, anchor string, offset, depth int, d span.Delimiters) (int, int, error) {
	from := offset
	start := offset

	if anchor != "" {
		idx := strings.Index(content, anchor)
		if idx == -1 {
			return 0, 0, errors.WithDetails(text.ErrAnchorNotFound, "anchor", anchor)
		}
		start = idx
		from = idx + len(anchor)
		if depth == 0 {
			depth = d.NetDepth(anchor)
		}
	} else if depth == 0 {
		depth = 1
	}

	end, err := d.Locate(content, from, depth)
	if err != nil {
		return 0, 0, errors.Errorf("locating span end: %w", err)
	}
	return start, end, nil
}
