package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitwall/logdeck/repositories"
	"github.com/pitwall/logdeck/utils"
)

var (
	jsonOutput bool
	verbose    bool
	apiUrl     string

	rootCmd = &cobra.Command{
		Use:   "logdeck",
		Short: "Logdeck - browse and manage telemetry capture logs",
		Long: `Logdeck is a client for the telemetry log backend. It lists, inspects,
annotates, uploads, exports and deletes capture logs, and tracks the
backend's asynchronous processing pipeline until uploads finish.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiUrl, "api-url", "",
		"backend base URL (defaults to LOGDECK_API_URL)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// commandContext attaches a logger to the cobra context so the lower layers
// log through it.
func commandContext(cmd *cobra.Command) context.Context {
	logger := utils.NewLogger(os.Stderr, verbose)
	return utils.StoreLoggerInContext(cmd.Context(), logger)
}

func gateway() *repositories.LogGatewayRepository {
	base := apiUrl
	if base == "" {
		base = utils.GetStringEnv("LOGDECK_API_URL", "http://localhost:8000/api")
	}
	client := &http.Client{
		Timeout: utils.GetDurationEnv("LOGDECK_HTTP_TIMEOUT", 30*time.Second),
	}
	return repositories.NewLogGatewayRepository(base, client)
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
