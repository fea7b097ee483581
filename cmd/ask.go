package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/console"
	"github.com/linanwx/nagochat/logger"
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Send one message and print the reply",
	Long: `Send a single message to the responder and print the entry the console
would show. Error entries go to stderr and the exit status is 1.

Examples:
  nagochat ask -m "hello"
  nagochat ask -m "你好" --locale zh`,
	RunE: runAsk,
}

var (
	askMessage  string
	askEndpoint string
	askLocale   string
	askTimeout  time.Duration
)

func init() {
	askCmd.Flags().StringVarP(&askMessage, "message", "m", "", "Message text (required)")
	askCmd.Flags().StringVar(&askEndpoint, "endpoint", "", "Responder endpoint (overrides config)")
	askCmd.Flags().StringVar(&askLocale, "locale", "", "Label language: en or zh (overrides config)")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 0, "Give up after this long (0 waits for the responder)")
	_ = askCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, _ []string) error {
	message := strings.TrimSpace(askMessage)
	if message == "" {
		return fmt.Errorf("message is empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	endpoint := cfg.Console.Endpoint
	if askEndpoint != "" {
		endpoint = askEndpoint
	}
	locale := cfg.Console.Locale
	if askLocale != "" {
		locale = askLocale
	}

	client, err := newResponderClient(cfg, endpoint)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if askTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, askTimeout)
		defer cancel()
	}
	bootstrap(ctx, client, cfg.Console.BootstrapPath)

	reply, sendErr := client.Send(ctx, message)
	out := console.Interpret(reply, sendErr, console.LabelsFor(locale))
	if !out.Append {
		logger.Debug("responder returned neither response nor error", "endpoint", endpoint)
		return nil
	}
	if out.Message.IsError {
		fmt.Fprintln(cmd.ErrOrStderr(), out.Message.Text)
		return errSilent
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.Message.Text)
	return nil
}
