package cmd

import (
	"github.com/spf13/cobra"

	"github.com/scraptools/txml/pkg/api"
	"github.com/scraptools/txml/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP conversion service",
	Long: `Start the HTTP conversion service.

The service accepts binary TXML on POST /api/v1/decode and XML on
POST /api/v1/encode, authenticated with the X-API-Key header. With
?store=true the result is persisted and retrievable from
GET /api/v1/documents/{id}.

Examples:
  txml serve --api-key=mysecretkey --port=8080
  txml serve --api-key=mysecretkey --store-path=./conversions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Server.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Server.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if cmd.Flags().Changed("store-path") {
			cfg.Server.StorePath, _ = cmd.Flags().GetString("store-path")
		}

		if cfg.Server.APIKey == "" || cfg.Server.APIKey == "auto" {
			cmd.Println("Error: an API key is required (set --api-key or run 'txml init')")
			return nil
		}

		return api.StartServer(api.ServerConfig{
			Port:      cfg.Server.Port,
			Bind:      cfg.Server.Bind,
			APIKey:    cfg.Server.APIKey,
			StorePath: cfg.Server.StorePath,
			Indent:    cfg.Output.Indent,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key for authentication")
	serveCmd.Flags().String("store-path", "", "Directory for stored conversion results (empty disables storage)")
}
