package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaughan-dsouza/postboard/internal/utils"
)

func tokenCmd() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a bearer token for --auth-mode=jwt",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "subject",
				Usage:    "Token subject",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "jwt-secret",
				Usage:   "HS256 signing key",
				EnvVars: []string{"POSTBOARD_JWT_SECRET", "ACCESS_SECRET"},
			},
			&cli.StringFlag{
				Name:    "ttl",
				Usage:   "Token lifetime, e.g. 15m, 1h or a number of minutes",
				EnvVars: []string{"POSTBOARD_TOKEN_TTL", "ACCESS_TTL"},
				Value:   "15m",
			},
		},
		Action: func(ctx *cli.Context) error {
			token, exp, err := utils.GenerateToken(ctx.String("subject"), ctx.String("jwt-secret"), ctx.String("ttl"))
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}

			fmt.Fprintln(ctx.App.Writer, token)
			fmt.Fprintf(ctx.App.ErrWriter, "expires at %s\n", time.Unix(exp, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}
}

func hashSecretCmd() *cli.Command {
	return &cli.Command{
		Name:  "hash-secret",
		Usage: "Print the bcrypt hash of a shared secret for --auth-mode=bcrypt",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "secret",
				Usage:   "Shared secret to hash",
				EnvVars: []string{"POSTBOARD_AUTH_SECRET"},
			},
			&cli.IntFlag{
				Name:  "cost",
				Usage: "bcrypt cost",
				Value: bcrypt.DefaultCost,
			},
		},
		Action: func(ctx *cli.Context) error {
			secret := ctx.String("secret")
			if secret == "" {
				return errors.New("secret is required")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(secret), ctx.Int("cost"))
			if err != nil {
				return fmt.Errorf("hash secret: %w", err)
			}

			fmt.Fprintln(ctx.App.Writer, string(hash))
			return nil
		},
	}
}
