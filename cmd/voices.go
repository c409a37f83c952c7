package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/vihananand1/pdf-speak-out/internal/tts"

	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the synthesis voices available to your API key",
	RunE:  runVoices,
}

var voicesAPIKey string

func init() {
	voicesCmd.Flags().StringVar(&voicesAPIKey, "api-key", "", "ElevenLabs API key (default: $ELEVENLABS_API_KEY)")

	rootCmd.AddCommand(voicesCmd)
}

func runVoices(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	key := voicesAPIKey
	if key == "" {
		key = resolveAPIKey()
	}

	service := tts.NewService(tts.Options{APIKey: key})
	if err := service.Init(ctx); err != nil {
		return fmt.Errorf("load voices: %w", err)
	}

	voices := service.Voices()
	if len(voices) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no voices available")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VOICE ID\tNAME\tCATEGORY")
	for _, v := range voices {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Name, v.Category)
	}
	return w.Flush()
}
