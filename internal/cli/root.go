// Package cli implementa la CLI de medremind: el servidor y un cliente de terminal
// que calcula las vistas localmente a partir de un snapshot de la API.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"medremind/internal/config"
	"medremind/internal/platform/logger"
)

var (
	formatFlag string
	apiURL     string
	apiToken   string
	apiUser    string
	cachePath  string
	offline    bool

	cfg *config.Config
)

// RootCmd es el comando raíz.
var RootCmd = &cobra.Command{
	Use:           "medremind",
	Short:         "Medication schedule and adherence tracker",
	Long:          "medremind sirve la API de medicamentos y tomas, y desde la terminal muestra el plan de hoy, adherencia, calendario y recargas.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		cfg = loaded

		switch formatFlag {
		case "json", "text":
		default:
			return fmt.Errorf("invalid --format %q (json|text)", formatFlag)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default: $API_URL)")
	RootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "Bearer token (default: $API_TOKEN)")
	RootCmd.PersistentFlags().StringVar(&apiUser, "user", "", "User id for a dev-mode server (default: $API_USER)")
	RootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Snapshot cache path (default: $CACHE_PATH)")
	RootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Use the cached snapshot without calling the API")
}

// Execute corre la CLI y sale con 1 si falla.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Los flags tienen prioridad sobre env/.env.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		c.APIURL = apiURL
	}
	if flags.Changed("token") {
		c.APIToken = apiToken
	}
	if flags.Changed("user") {
		c.APIUser = apiUser
	}
	if flags.Changed("cache") {
		c.CachePath = cachePath
	}
}

func newLogger() *logger.ZeroLogger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
}

// now es el reloj en la zona configurada.
func now() time.Time {
	return time.Now().In(cfg.Location())
}

func jsonOutput() bool {
	return strings.EqualFold(formatFlag, "json")
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
