package main

import (
	"context"
	"os/signal"
	"syscall"

	"brc-agent/internal/di"
	"brc-agent/internal/infrastructure/env"
	"brc-agent/internal/infrastructure/userinteraction"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agent",
		Short:         "Browser remote-command agent",
		Long:          "Polls a command server, executes the queued commands in the local Chrome and reports the results.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAgent,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Start the browser, the poll scheduler and the control API (default)",
			Args:  cobra.NoArgs,
			RunE:  runAgent,
		},
		&cobra.Command{
			Use:   "register",
			Short: "Register this agent with the configured server",
			Args:  cobra.NoArgs,
			RunE:  runRegister,
		},
		&cobra.Command{
			Use:   "poll",
			Short: "Run a single poll cycle and exit",
			Args:  cobra.NoArgs,
			RunE:  runPoll,
		},
		newConfigureCmd(),
		&cobra.Command{
			Use:   "id",
			Short: "Print the agent ID, generating it on first use",
			Args:  cobra.NoArgs,
			RunE:  runID,
		},
	)
	return root
}

func newConfigureCmd() *cobra.Command {
	var endpoint, credential, label string

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Edit the server URL, API key and label",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, func(ctx context.Context, c *di.Container) error {
				if _, err := c.Registrar.EnsureIdentity(ctx); err != nil {
					return err
				}
				s, err := c.Registrar.Configure(ctx, endpoint, credential, label)
				if err != nil {
					return err
				}
				console := userinteraction.NewConsole(cmd.OutOrStdout())
				console.Settings(s)
				console.SettingsFile(c.Store.Path())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "command server base URL")
	cmd.Flags().StringVar(&credential, "api-key", "", "API key issued by the server")
	cmd.Flags().StringVar(&label, "label", "", "human-readable name shown on the server")
	return cmd
}

// withContainer builds the settings/server half of the container, cancels
// on SIGINT/SIGTERM, and closes everything when fn returns.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *di.Container) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := di.NewContainer(di.LoadConfig(env.NewEnvService()))
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c)
}

func runAgent(cmd *cobra.Command, _ []string) error {
	return withContainer(cmd, func(ctx context.Context, c *di.Container) error {
		if _, err := c.Registrar.EnsureIdentity(ctx); err != nil {
			return err
		}
		if err := c.StartBrowser(ctx); err != nil {
			return err
		}

		c.Registrar.AutoRegister(ctx)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return c.Scheduler.Run(ctx) })
		if c.Control != nil {
			g.Go(func() error { return c.Control.Serve(ctx) })
		}
		return g.Wait()
	})
}

func runRegister(cmd *cobra.Command, _ []string) error {
	return withContainer(cmd, func(ctx context.Context, c *di.Container) error {
		s, err := c.Registrar.Register(ctx)
		if err != nil {
			return err
		}
		userinteraction.NewConsole(cmd.OutOrStdout()).Registered(s)
		return nil
	})
}

func runPoll(cmd *cobra.Command, _ []string) error {
	return withContainer(cmd, func(ctx context.Context, c *di.Container) error {
		if err := c.StartBrowser(ctx); err != nil {
			return err
		}
		stats, err := c.Poller.PollOnce(ctx)
		if err != nil {
			return err
		}
		userinteraction.NewConsole(cmd.OutOrStdout()).Cycle(stats)
		return nil
	})
}

func runID(cmd *cobra.Command, _ []string) error {
	return withContainer(cmd, func(ctx context.Context, c *di.Container) error {
		s, err := c.Registrar.EnsureIdentity(ctx)
		if err != nil {
			return err
		}
		userinteraction.NewConsole(cmd.OutOrStdout()).ID(s.Identity.ID)
		return nil
	})
}
