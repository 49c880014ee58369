// Command wfmctl is the CLI surface spec.md §6 describes: read_file,
// write_file, and their parallel-batch variants. Single-file commands
// go through pkg/dispatch so the same binary round-trips both WFM and
// CSV paths; the parallel commands go straight through pkg/parallel,
// which (like the core) only knows the WFM codec. Grounded on
// sixy6e/go-gsf's cmd/main.go urfave/cli/v2 command layout.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/scopewave/wfmgo/pkg/dispatch"
	"github.com/scopewave/wfmgo/pkg/parallel"
	"github.com/scopewave/wfmgo/pkg/waveform"
)

var log = logrus.New()

func main() {
	app := &cli.App{
		Name:  "wfmctl",
		Usage: "read and write Tektronix-style WFM waveform files",
		Commands: []*cli.Command{
			readFileCommand,
			writeFileCommand,
			readFilesInParallelCommand,
			writeFilesInParallelCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("wfmctl failed")
		os.Exit(1)
	}
}

var readFileCommand = &cli.Command{
	Name:      "read_file",
	Usage:     "read a waveform file and print a summary",
	ArgsUsage: "<path>",
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return cli.Exit("read_file: a path argument is required", 1)
		}

		codec, err := dispatch.Open(path)
		if err != nil {
			return cli.Exit(err, 1)
		}
		wf, err := codec.Read()
		if err != nil {
			return cli.Exit(err, 1)
		}

		fmt.Println(summarize(path, wf))
		return nil
	},
}

var writeFileCommand = &cli.Command{
	Name:      "write_file",
	Usage:     "read a waveform from src and re-encode it at dst",
	ArgsUsage: "<src> <dst>",
	Action: func(c *cli.Context) error {
		if c.Args().Len() < 2 {
			return cli.Exit("write_file: src and dst path arguments are required", 1)
		}
		src, dst := c.Args().Get(0), c.Args().Get(1)

		codec, err := dispatch.Open(src)
		if err != nil {
			return cli.Exit(err, 1)
		}
		wf, err := codec.Read()
		if err != nil {
			return cli.Exit(err, 1)
		}

		if err := dispatch.Write(dst, wf); err != nil {
			return cli.Exit(err, 1)
		}

		fmt.Println(dst)
		return nil
	},
}

var readFilesInParallelCommand = &cli.Command{
	Name:      "read_files_in_parallel",
	Usage:     "read a batch of WFM files concurrently",
	ArgsUsage: "<path> [path...]",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "workers", Value: 0, Usage: "worker count (0 picks NumCPU)"},
	},
	Action: func(c *cli.Context) error {
		paths := c.Args().Slice()
		if len(paths) == 0 {
			return cli.Exit("read_files_in_parallel: at least one path is required", 1)
		}

		results, err := parallel.ReadFilesInParallel(paths, c.Int("workers"))
		if err != nil {
			return cli.Exit(err, 1)
		}

		for _, r := range results {
			fmt.Println(summarize(r.Path, r.Waveform))
		}
		return nil
	},
}

var writeFilesInParallelCommand = &cli.Command{
	Name:      "write_files_in_parallel",
	Usage:     "read each src WFM and re-write it at the paired dst, concurrently",
	ArgsUsage: "<src>:<dst> [src:dst...]",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "workers", Value: 0, Usage: "worker count (0 picks NumCPU)"},
	},
	Action: func(c *cli.Context) error {
		pairs := c.Args().Slice()
		if len(pairs) == 0 {
			return cli.Exit("write_files_in_parallel: at least one src:dst pair is required", 1)
		}

		srcs := make([]string, len(pairs))
		dsts := make([]string, len(pairs))
		for i, pair := range pairs {
			parts := strings.SplitN(pair, ":", 2)
			if len(parts) != 2 {
				return cli.Exit(fmt.Sprintf("write_files_in_parallel: malformed pair %q, want src:dst", pair), 1)
			}
			srcs[i], dsts[i] = parts[0], parts[1]
		}

		workers := c.Int("workers")
		results, err := parallel.ReadFilesInParallel(srcs, workers)
		if err != nil {
			return cli.Exit(err, 1)
		}

		byPath := make(map[string]waveform.Waveform, len(results))
		for _, r := range results {
			byPath[r.Path] = r.Waveform
		}
		wfs := make([]waveform.Waveform, len(srcs))
		for i, src := range srcs {
			wfs[i] = byPath[src]
		}

		if err := parallel.WriteFilesInParallel(dsts, wfs, workers); err != nil {
			return cli.Exit(err, 1)
		}

		for _, d := range dsts {
			fmt.Println(d)
		}
		return nil
	},
}

func summarize(path string, wf waveform.Waveform) string {
	switch v := wf.(type) {
	case *waveform.Analog:
		return fmt.Sprintf("%s: analog, %d samples, label=%q", path, v.RecordLength(), v.Meta.WaveformLabel)
	case *waveform.IQ:
		return fmt.Sprintf("%s: iq, %d interleaved samples, label=%q", path, v.Interleaved.Len(), v.Meta.WaveformLabel)
	case *waveform.Digital:
		return fmt.Sprintf("%s: digital, %d samples, label=%q", path, v.RecordLength(), v.Meta.WaveformLabel)
	default:
		return fmt.Sprintf("%s: unknown waveform kind %T", path, wf)
	}
}
