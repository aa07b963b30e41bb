package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZameerHP/clipscript/pkg/audio"
)

type WAVOptions struct {
	*RootOptions
	In   string
	Out  string
	Rate int
}

func NewWAVCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WAVOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "wav",
		Short: "Wrap raw 16-bit mono PCM in a WAV file",
		Example: `  clipscript wav --in speech.pcm --out speech.wav
  clipscript wav --in speech.pcm --out speech.wav --rate 16000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pcm, err := os.ReadFile(opts.In)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read pcm", err)
			}
			wav, err := audio.EncodeWAV(pcm, opts.Rate)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to encode wav", err)
			}
			if err := os.WriteFile(opts.Out, wav, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "failed to write wav", err)
			}
			h, _ := audio.ParseHeader(wav)
			data := map[string]any{"path": opts.Out, "bytes": len(wav), "sampleRate": h.SampleRate, "durationMs": h.DurationMillis()}
			return opts.formatter(cmd).Success(data, func(w io.Writer) {
				fmt.Fprintf(w, "Wrote %s (%d bytes, %d Hz, %.2fs).\n", opts.Out, len(wav), h.SampleRate, float64(h.DurationMillis())/1000)
			})
		},
	}
	cmd.Flags().StringVar(&opts.In, "in", "", "raw PCM input file (required)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "WAV output file (required)")
	cmd.Flags().IntVar(&opts.Rate, "rate", audio.DefaultSampleRate, "sample rate in Hz")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
