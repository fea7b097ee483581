package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linanwx/nagochat/channel"
	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/console"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat console",
	Long: `Open the chat console against the configured responder endpoint.

On a terminal the console is a full-screen TUI: Enter sends, Alt+Enter or
Ctrl+J inserts a newline, Ctrl+C quits. With --plain, or when stdin is not
a terminal, messages are read line by line; end a line with \ to continue it.

Examples:
  nagochat chat
  nagochat chat --endpoint http://127.0.0.1:8000/get_response/
  echo "hello" | nagochat chat --plain`,
	RunE: runChat,
}

var (
	chatEndpoint string
	chatPlain    bool
	chatLocale   string
	chatMarkdown bool
	chatLogs     bool
)

func init() {
	bindChatFlags(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

func bindChatFlags(c *cobra.Command) {
	c.Flags().StringVar(&chatEndpoint, "endpoint", "", "Responder endpoint (overrides config)")
	c.Flags().BoolVar(&chatPlain, "plain", false, "Use line mode even on a terminal")
	c.Flags().StringVar(&chatLocale, "locale", "", "Label language: en or zh (overrides config)")
	c.Flags().BoolVar(&chatMarkdown, "markdown", false, "Render replies as markdown")
	c.Flags().BoolVar(&chatLogs, "logs", false, "Show the log panel")
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	endpoint := cfg.Console.Endpoint
	if chatEndpoint != "" {
		endpoint = chatEndpoint
	}
	locale := cfg.Console.Locale
	if chatLocale != "" {
		locale = chatLocale
	}

	client, err := newResponderClient(cfg, endpoint)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	bootstrap(ctx, client, cfg.Console.BootstrapPath)

	ch := channel.NewCLIChannel(channel.Config{
		Prompt:      "nagochat> ",
		Placeholder: placeholderFor(locale),
		SubmitLabel: submitLabelFor(locale),
		BusyLabel:   busyLabelFor(locale),
		Markdown:    cfg.Console.Markdown || chatMarkdown,
		ShowLogs:    cfg.Console.ShowLogs || chatLogs,
	}, chatPlain)

	session := console.NewSession(ctx, ch, client, console.SessionConfig{
		Labels:      console.LabelsFor(locale),
		StatusTTL:   cfg.Console.StatusTTL,
		ResizeQuiet: cfg.Console.ResizeQuiet,
	})
	defer session.Close()

	return ch.Run(ctx)
}

func placeholderFor(locale string) string {
	if console.LabelsFor(locale) == console.ChineseLabels {
		return "输入消息..."
	}
	return "Type a message..."
}

func submitLabelFor(locale string) string {
	if console.LabelsFor(locale) == console.ChineseLabels {
		return "发送"
	}
	return "Send"
}

func busyLabelFor(locale string) string {
	if console.LabelsFor(locale) == console.ChineseLabels {
		return "发送中..."
	}
	return "Sending..."
}
