package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/suPer8Hu/chat-studio/internal/format"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chatctl",
		Short:         "Tools for the chat studio core",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRenderCmd(), newActivityCmd())
	return root
}

type renderOpts struct {
	strategy string
	output   string
	width    int
	file     string
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "render [text]",
		Short: "Format message text into blocks",
		Long: `Render formats message text the way the chat client displays it.
The text is taken from the arguments, from --file, or from stdin.`,
		Example: `  printf '**Plan**\n• **Setup**\n• install' | chatctl render --format term
  chatctl render --strategy fenced --format html "see:\n` + "```go\\nfmt.Println()\\n```" + `"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), opts.file, args)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), text, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "auto", "rich, fenced, plain or auto")
	cmd.Flags().StringVarP(&opts.output, "format", "f", "json", "output format: json, html or term")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 80, "wrap width for term output")
	cmd.Flags().StringVar(&opts.file, "file", "", "read text from a file")
	return cmd
}

func readInput(stdin io.Reader, file string, args []string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(b), nil
	default:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
}

func render(w io.Writer, text string, opts renderOpts) error {
	s, err := format.Resolve(opts.strategy, text)
	if err != nil {
		return err
	}
	blocks := s.Format(text)

	switch strings.ToLower(opts.output) {
	case "json":
		if blocks == nil {
			blocks = []format.Block{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Strategy string         `json:"strategy"`
			Blocks   []format.Block `json:"blocks"`
		}{s.Name(), blocks})
	case "html":
		_, err := fmt.Fprintln(w, format.RenderHTML(blocks))
		return err
	case "term":
		_, err := fmt.Fprintln(w, format.RenderTerminal(blocks, opts.width))
		return err
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}
}
