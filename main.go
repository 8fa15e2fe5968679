package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	assistantx "github.com/tanpawarit/story-slammer/agent/agents/assistant"
	sessionx "github.com/tanpawarit/story-slammer/agent/agents/session"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	llmx "github.com/tanpawarit/story-slammer/agent/llm"
	mediax "github.com/tanpawarit/story-slammer/agent/media"
	promptx "github.com/tanpawarit/story-slammer/agent/prompt"
	toolx "github.com/tanpawarit/story-slammer/agent/tool"
	"github.com/tanpawarit/story-slammer/agent/tracker"
	anthropicx "github.com/tanpawarit/story-slammer/pkg/anthropic"
	configx "github.com/tanpawarit/story-slammer/pkg/config"
	"github.com/tanpawarit/story-slammer/pkg/console"
	logx "github.com/tanpawarit/story-slammer/pkg/logger"
	_ "github.com/tanpawarit/story-slammer/pkg/logger/autoload"
	whisperx "github.com/tanpawarit/story-slammer/pkg/whisper"
)

type AppConfig struct {
	SettingsFile string `envconfig:"SETTINGS_FILE" split_words:"true" default:"settings.json"`
	PromptsDir   string `envconfig:"PROMPTS_DIR" split_words:"true"`
	FFmpegPath   string `envconfig:"FFMPEG_PATH" split_words:"true" default:"ffmpeg"`
}

type options struct {
	envFile      string
	settingsFile string
	promptsDir   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "story-slammer",
		Short:         "Summarise a Jira card with its notes, screenshots and recording, then answer questions about it",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			term := console.New(in, out)
			if err := run(cmd.Context(), opts, term); err != nil {
				term.Print(console.Failure, fmt.Sprintf("Error: %v", err))
				log.Error().Err(err).Msg("session failed")
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.envFile, "env", "", "dotenv file to load instead of .env")
	cmd.Flags().StringVar(&opts.settingsFile, "settings", "", "settings file remembering input paths (default settings.json)")
	cmd.Flags().StringVar(&opts.promptsDir, "prompts", "", "directory overriding the built-in prompt files")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln("Error:", err)
		c.PrintErrln(c.UsageString())
		return err
	})
	return cmd
}

func run(ctx context.Context, opts options, term *console.Console) error {
	if opts.envFile != "" {
		configx.UseEnvFile(opts.envFile)
		logCfg, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return err
		}
		logx.Init(*logCfg)
	}

	appCfg, err := configx.New[AppConfig]("APP")
	if err != nil {
		return err
	}
	if opts.settingsFile != "" {
		appCfg.SettingsFile = opts.settingsFile
	}
	if opts.promptsDir != "" {
		appCfg.PromptsDir = opts.promptsDir
	}

	prompts, err := promptx.LoadDir(appCfg.PromptsDir)
	if err != nil {
		return err
	}

	llmCfg, err := configx.New[llmx.Config]("ANTHROPIC")
	if err != nil {
		return err
	}
	if err := llmCfg.Validate(); err != nil {
		return err
	}
	model, err := llmx.NewAnthropicModel(anthropicx.NewClient(llmCfg.ClientConfig()))
	if err != nil {
		return err
	}

	jiraCfg, err := configx.New[tracker.Config]("JIRA")
	if err != nil {
		return err
	}
	jira, err := tracker.NewClient(*jiraCfg)
	if err != nil {
		return err
	}

	transcriber, err := newTranscriber(appCfg.FFmpegPath)
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()
	log.Debug().Str("session_id", sessionID).Msg("session starting")

	printIntro(term, prompts)

	ticket, err := term.Ask(console.Success, "Enter the name of the Jira card you're working on: ")
	if err != nil {
		return err
	}
	ticket = tracker.NormalizeKey(ticket)

	settings, err := configx.LoadSettings(appCfg.SettingsFile)
	if err != nil {
		return err
	}
	if settings, err = confirmSettings(term, settings); err != nil {
		return err
	}
	if err := configx.SaveSettings(appCfg.SettingsFile, settings); err != nil {
		return err
	}
	printInputSummary(term, ticket, settings)

	registry, err := assistantx.NewRegistry(ctx, *llmCfg, model, toolx.Build(jira), prompts,
		assistantx.WithNotify(term.Notice),
	)
	if err != nil {
		return err
	}

	svc, err := sessionx.New(jira, transcriber, registry.Engine(), registry.Summarizer(), prompts, sessionx.Config{
		SessionID: sessionID,
		Ticket:    ticket,
	})
	if err != nil {
		return err
	}

	term.Print(console.Failure, "\nCommence Artificial Intelligence Procedures...")

	seed, err := svc.Gather(ctx, sessionx.Inputs{
		Ticket:        ticket,
		NotesPath:     settings.NotesPath,
		ImagesPath:    settings.ImagesPath,
		RecordingPath: settings.RecordingPath,
		VaultPath:     settings.VaultPath,
	})
	if err != nil {
		return err
	}

	summary, err := svc.Seed(ctx, seed, settings.VaultPath, ticket)
	if err != nil {
		return err
	}
	term.Print(console.Heading, "\nInitial Summary:")
	term.Print(console.Success, summary)

	term.Print(console.Heading, "\nYou can now ask questions about the Jira issues. Type 'exit' to end the conversation.")
	return svc.RunInteractive(ctx, term, term)
}

// newTranscriber returns nil when no OpenAI key is configured; a recording
// is then rejected during input validation.
func newTranscriber(ffmpegPath string) (contractx.Transcriber, error) {
	cfg, err := configx.New[whisperx.Config]("OPENAI")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Warn().Msg("OPENAI_API_KEY not set; recordings cannot be transcribed")
		return nil, nil
	}

	client, err := whisperx.NewClient(*cfg)
	if err != nil {
		return nil, err
	}
	transcriber, err := mediax.NewWhisperTranscriber(client, cfg.Model(), mediax.FFmpeg{Path: ffmpegPath})
	if err != nil {
		return nil, err
	}
	return transcriber, nil
}
