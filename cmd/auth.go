package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"zoomcal/internal/config"
	"zoomcal/internal/zoom"
)

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize the Zoom app and print the tokens to put in .env.",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			return bootstrap(c, logger, cfg)
		},
	}
}

func refreshCommand() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Trade ZOOM_REFRESH_TOKEN for a new token pair.",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := requireClientCredentials(cfg); err != nil {
				return err
			}

			token, err := zoom.NewAuthenticator(logger, cfg).RefreshAccessToken(c.Context, cfg.Credentials.RefreshToken)
			if err != nil {
				printExchangeError(c.App.Writer, err)
				return err
			}
			printTokenEnv(c.App.Writer, token)
			return nil
		},
	}
}

// bootstrap runs the interactive authorization-code flow.
func bootstrap(c *cli.Context, logger *slog.Logger, cfg *config.Config) error {
	if err := requireClientCredentials(cfg); err != nil {
		return err
	}
	out := c.App.Writer
	a := zoom.NewAuthenticator(logger, cfg)

	fmt.Fprintln(out, "Open the following URL in your browser and authorize the app:")
	fmt.Fprintln(out, a.AuthorizationURL())
	fmt.Fprintln(out, "\nAfter the redirect, copy the value after 'code=' from the address bar.")
	fmt.Fprint(out, "Authorization Code: ")

	reader := bufio.NewReader(c.App.Reader)
	code, _ := reader.ReadString('\n')
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("no authorization code entered")
	}

	token, err := a.ExchangeCode(c.Context, code)
	if err != nil {
		printExchangeError(out, err)
		return err
	}

	printTokenEnv(out, token)
	fmt.Fprintln(out, "\nSetup complete. Run the command again to schedule a meeting.")
	return nil
}

func requireClientCredentials(cfg *config.Config) error {
	if cfg.Credentials.ClientID == "" || cfg.Credentials.ClientSecret == "" {
		return errors.New("ZOOM_CLIENT_ID and ZOOM_CLIENT_SECRET environment variables must be set")
	}
	return nil
}

func printTokenEnv(out io.Writer, token *oauth2.Token) {
	fmt.Fprintln(out, "\nAccess token obtained. Add the following to your .env file:")
	fmt.Fprintf(out, "ZOOM_ACCESS_TOKEN=%s\n", token.AccessToken)
	fmt.Fprintf(out, "ZOOM_REFRESH_TOKEN=%s\n", token.RefreshToken)
}

func printExchangeError(out io.Writer, err error) {
	var aee *zoom.AuthExchangeError
	if errors.As(err, &aee) {
		fmt.Fprintf(out, "\nToken request failed: %d\n%s\n", aee.StatusCode, aee.Body)
	}
}
