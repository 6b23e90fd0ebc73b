package main

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
)

func newWaitCommand(a *app) *cobra.Command {
	var maxElapsed time.Duration
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until the server answers, retrying with exponential backoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 250 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			b.MaxElapsedTime = maxElapsed

			ping := func() error { return a.client.Ping(cmd.Context()) }
			notify := func(err error, next time.Duration) {
				a.log.Warn().Err(err).Dur("retry_in", next).Msg("server not ready")
			}
			if err := backoff.RetryNotify(ping, backoff.WithContext(b, cmd.Context()), notify); err != nil {
				return fmt.Errorf("server not ready after %s: %w", maxElapsed, err)
			}
			_, err := fmt.Fprintln(a.out, "ready")
			return err
		},
	}
	cmd.Flags().DurationVar(&maxElapsed, "max-elapsed", time.Minute, "give up after this long")
	return cmd
}
