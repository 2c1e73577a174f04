/*
Package cmd implements the agora command-line interface: serving marketplace
agents, the orchestrator and the catalog, and chatting with any of them.
*/
package cmd

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

/*
Embed a mini filesystem into the binary to hold the default config file.
This will be written to the home directory of the user running the service,
which allows a developer to easily override the config file.
*/
//go:embed cfg/*
var embedded embed.FS

var (
	projectName = "agora"
	cfgFile     string

	rootCmd = &cobra.Command{
		Use:   "agora",
		Short: "A multi-agent marketplace speaking the Agent-to-Agent (A2A) protocol",
		Long:  longRoot,
	}
)

/*
Execute is the main entry point for the agora CLI.
*/
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yml",
		"config file (default is $HOME/."+projectName+"/config.yml)",
	)
}

/*
initConfig writes the default config file to the user's home directory if it
doesn't exist, then reads it back through viper.
*/
func initConfig() {
	var err error

	if err = writeConfig(); err != nil {
		log.Fatal("failed to write config", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	home, _ := os.UserHomeDir()
	viper.AddConfigPath(home + "/." + projectName)

	if err = viper.ReadInConfig(); err != nil {
		log.Fatal("failed to read config", "error", err)
	}
}

func writeConfig() (err error) {
	var (
		home, _ = os.UserHomeDir()
		fh      fs.File
		buf     bytes.Buffer
	)

	configDir := home + "/." + projectName

	if !checkFileExists(configDir) {
		if err = os.MkdirAll(configDir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	for _, file := range []string{cfgFile} {
		fullPath := configDir + "/" + file

		if checkFileExists(fullPath) {
			continue
		}

		if fh, err = embedded.Open("cfg/" + file); err != nil {
			return fmt.Errorf("failed to open embedded config file: %w", err)
		}

		if _, err = io.Copy(&buf, fh); err != nil {
			fh.Close()
			return fmt.Errorf("failed to read embedded config file: %w", err)
		}

		if err = os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
			fh.Close()
			return fmt.Errorf("failed to write config file: %w", err)
		}

		log.Info("wrote config file", "path", fullPath)
		buf.Reset()
		fh.Close()
	}

	return nil
}

func checkFileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !errors.Is(err, os.ErrNotExist)
}

var longRoot = `
agora is a marketplace of A2A agents: a catalog for registration, an
orchestrator that routes user requests by intent, and a set of domain
agents behind a shared JSON-RPC task protocol.
`
