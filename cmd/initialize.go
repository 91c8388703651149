package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/example/padel-scheduler/internal/config"
	"github.com/example/padel-scheduler/internal/crypto"
	"github.com/example/padel-scheduler/internal/playtomic"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Capture Playtomic credentials and default booking preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := config.Exists()
			if err != nil {
				return err
			}
			if exists {
				p, _ := config.Path()
				fmt.Fprintf(os.Stdout, "Configuration already exists. Delete %s to re-initialize.\n", p)
				return nil
			}

			in := bufio.NewReader(cmd.InOrStdin())

			email, err := prompt(in, "Playtomic account email address: ")
			if err != nil {
				return err
			}
			password, err := promptPassword("Playtomic account password: ")
			if err != nil {
				return err
			}

			// Verify the credentials before persisting anything.
			client := playtomic.New(email, password)
			if _, err := client.Login(context.Background()); err != nil {
				if errors.Is(err, playtomic.ErrInvalidCredentials) {
					return fmt.Errorf("wrong credentials provided")
				}
				return fmt.Errorf("login check failed: %w", err)
			}
			fmt.Fprintln(os.Stdout, "Logged in to your Playtomic account.")

			days, err := prompt(in, "Days of the week to reserve (e.g. 2,3 for Tue and Wed): ")
			if err != nil {
				return err
			}
			hours, err := prompt(in, "Starting hours to reserve (e.g. 20:00,20:30): ")
			if err != nil {
				return err
			}
			duration, err := prompt(in, "Court duration in hours (1, 1.5 or 2) [1.5]: ")
			if err != nil {
				return err
			}
			if duration == "" {
				duration = "1.5"
			}

			key, err := crypto.GenerateKey()
			if err != nil {
				return err
			}
			aead, err := crypto.New(key)
			if err != nil {
				return err
			}
			sealed, err := aead.EncryptToString(password)
			if err != nil {
				return err
			}
			if err := config.SaveKey(key); err != nil {
				return err
			}

			cfg := config.Config{
				Email:    email,
				Password: sealed,
				Days:     days,
				Hours:    hours,
				Duration: duration,
				LogLevel: "info",
			}
			if err := config.Save(cfg); err != nil {
				return err
			}

			p, _ := config.Path()
			fmt.Fprintf(os.Stdout, "Configuration written to %s. Add your venues under `venues:` before scheduling.\n", p)
			return nil
		},
	}
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(os.Stdout, label)
	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Fprint(os.Stdout, label)
	b, err := terminal.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stdout)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
