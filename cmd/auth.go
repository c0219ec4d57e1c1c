package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/autodiagram/internal/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored provider and GitHub credentials",
	Long: `Store and manage API credentials for LLM providers and GitHub.

Credentials are stored in ~/.autodiagram/credentials.json and used
as a fallback when environment variables are not set.`,
}

var authSetCmd = &cobra.Command{
	Use:       "set <openai|claude|google|github>",
	Short:     "Store an API key or access token",
	Args:      cobra.ExactArgs(1),
	ValidArgs: auth.Names,
	RunE:      runAuthSet,
}

var authServiceAccountCmd = &cobra.Command{
	Use:   "google-service-account <key-file>",
	Short: "Use a Google service-account key file for Vertex AI",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthServiceAccount,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials are stored",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored credentials",
	Long: `Remove stored credentials for one name, or all of them when no name is given.
Valid names: openai, claude, google, github`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authServiceAccountCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(args[0])

	prompt := promptui.Prompt{
		Label: fmt.Sprintf("%s secret", name),
		Mask:  '*',
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("secret cannot be empty")
			}
			return nil
		},
	}
	secret, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("reading secret: %w", err)
	}

	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	if err := creds.Set(name, secret); err != nil {
		return err
	}
	if err := auth.Save(creds); err != nil {
		return err
	}
	fmt.Printf("Stored %s credentials.\n", name)
	return nil
}

func runAuthServiceAccount(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("service account file: %w", err)
	}

	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	creds.GoogleServiceAccountFile = path
	if err := auth.Save(creds); err != nil {
		return err
	}
	fmt.Printf("Google service account set to %s\n", path)
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	path, _ := auth.CredentialPath()
	fmt.Printf("Credentials file: %s\n\n", path)

	stored := make(map[string]bool)
	for _, name := range creds.Stored() {
		stored[name] = true
	}
	for _, name := range auth.Names {
		state := "not set"
		if stored[name] {
			state = "stored"
		}
		fmt.Printf("  %-8s %s\n", name, state)
	}
	if creds.GoogleServiceAccountFile != "" {
		fmt.Printf("  %-8s service account %s\n", "vertex", creds.GoogleServiceAccountFile)
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	creds, err := auth.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	creds.Remove(name)
	if err := auth.Save(creds); err != nil {
		return err
	}
	if name == "" {
		fmt.Println("Removed all stored credentials.")
	} else {
		fmt.Printf("Removed %s credentials.\n", name)
	}
	return nil
}
