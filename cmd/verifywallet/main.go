package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/layer-3/amicbridge/adapters/wallet"
	"github.com/layer-3/amicbridge/client"
	"github.com/layer-3/amicbridge/logging"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "verifywallet",
		Usage: "prove ownership of a wallet to an amicbridge server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "base URL of the amicbridge server",
				Value:   "http://localhost:9000",
				EnvVars: []string{"AMICBRIDGE_URL"},
			},
			&cli.StringFlag{
				Name:     "key",
				Usage:    "hex encoded secp256k1 private key of the wallet",
				EnvVars:  []string{"WALLET_PRIVATE_KEY"},
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "server-challenge",
				Usage: "ask the server to build the challenge message",
			},
			&cli.DurationFlag{
				Name:  "sign-timeout",
				Usage: "maximum time to wait for the signature",
				Value: 2 * time.Minute,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
			},
		},
		Action: verify,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func verify(c *cli.Context) error {
	logger, err := logging.New(c.String("log-level"), "development")
	if err != nil {
		return err
	}
	defer logger.Sync()

	w, err := wallet.NewKeyWalletFromHex(c.String("key"))
	if err != nil {
		return err
	}

	api := client.NewAPIClient(c.String("server"))
	opts := []client.Option{
		client.WithSignTimeout(c.Duration("sign-timeout")),
		client.WithLogger(logger),
	}
	if c.Bool("server-challenge") {
		opts = append(opts, client.WithChallengeSource(api.Challenge))
	}

	o := client.NewOrchestrator(w, api, opts...)

	fmt.Printf("Connected wallet: %s\n", w.Address())

	attempt, err := o.Run(context.Background())
	if err != nil {
		logger.Debug("verification failed", zap.String("state", string(attempt.State)), zap.Error(err))
		return cli.Exit(client.DisplayMessage(attempt.Err), 1)
	}

	fmt.Println("Your wallet has been verified.")
	return nil
}
