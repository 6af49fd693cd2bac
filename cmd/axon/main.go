package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	sessionID string
	voice     string
	mode      string
	latitude  float64
	longitude float64
)

var rootCmd = &cobra.Command{
	Use:   "axon",
	Short: "AXON personal assistant in the terminal",
	Long: `AXON answers short commands: facts, who-is lookups, location, weather,
currency, show ratings, notes, todos and web search.

Output is rendered to stdout. Camera and microphone are unavailable here.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "", "conversation id (uuid); a new one is created when empty")
	rootCmd.PersistentFlags().StringVar(&voice, "voice", "", "voice profile: default or jarvis")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "auto", "auto treats the next utterance as a selection; command never does")
	rootCmd.PersistentFlags().Float64Var(&latitude, "lat", 0, "latitude for location and weather")
	rootCmd.PersistentFlags().Float64Var(&longitude, "lon", 0, "longitude for location and weather")

	rootCmd.AddCommand(askCmd, replCmd, watchCmd, notesCmd, todosCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
