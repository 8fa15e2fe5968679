package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/story-slammer/agent/contract"
	nodex "github.com/tanpawarit/story-slammer/agent/nodes/session"
	promptx "github.com/tanpawarit/story-slammer/agent/prompt"
	statex "github.com/tanpawarit/story-slammer/agent/state"
)

type Inputs = nodex.Inputs

const (
	Acknowledgement  = "I understand, and am prepared to answer any questions the user may have and use my tools when appropriate."
	InvalidQuestion  = "Please enter a valid question."
	QuestionPrompt   = "\nYour question: "
	ExitCommand      = "exit"
	DefaultSummaryMD = "summary.md"
)

// Responder answers the latest user turn of a conversation.
type Responder interface {
	GetResponse(ctx context.Context, conv contractx.Conversation) (string, error)
}

// Summarizer turns the seed history into the initial summary.
type Summarizer interface {
	Summarize(ctx context.Context, turns []contractx.Turn) (string, error)
}

type Config struct {
	SessionID string
	Ticket    string
}

// Service drives one session: gather material, seed the conversation with
// a summary, then answer questions until the user leaves.
type Service struct {
	issues      nodex.IssueGraph
	transcriber contractx.Transcriber
	engine      Responder
	summarizer  Summarizer
	prompts     promptx.PromptSet

	session *statex.Session
	logger  zerolog.Logger

	gatherRunner compose.Runnable[nodex.Inputs, contractx.Turn]

	now func() time.Time
}

func New(
	issues nodex.IssueGraph,
	transcriber contractx.Transcriber,
	engine Responder,
	summarizer Summarizer,
	prompts promptx.PromptSet,
	cfg Config,
) (*Service, error) {
	if engine == nil {
		return nil, errors.New("responder is required")
	}
	if summarizer == nil {
		return nil, errors.New("summarizer is required")
	}

	s := &Service{
		issues:      issues,
		transcriber: transcriber,
		engine:      engine,
		summarizer:  summarizer,
		prompts:     prompts,
		now:         time.Now,
	}
	s.session = statex.NewSession(strings.TrimSpace(cfg.SessionID), strings.TrimSpace(cfg.Ticket), s.now())
	s.logger = log.With().Str("session_id", s.session.ID).Logger()

	runner, err := s.compileGatherGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.gatherRunner = runner

	return s, nil
}

// Session exposes the conversation owned by the service.
func (s *Service) Session() *statex.Session {
	return s.session
}

// Gather validates the inputs, collects every source and returns the seed
// turn. Nothing is appended to the history.
func (s *Service) Gather(ctx context.Context, in Inputs) (contractx.Turn, error) {
	turn, err := s.gatherRunner.Invoke(ctx, in)
	if err != nil {
		return contractx.Turn{}, err
	}
	s.logger.Debug().Int("blocks", len(turn.Content)).Msg("seed turn assembled")
	return turn, nil
}

// Seed appends the seed turn, asks for the initial summary and writes it to
// <vault>/<ticket>.md. The history then gains the summary, the chatbot
// prompt and a fixed acknowledgement.
func (s *Service) Seed(ctx context.Context, seed contractx.Turn, vaultPath, ticket string) (string, error) {
	if err := s.session.Append(seed); err != nil {
		return "", err
	}

	summary, err := s.summarizer.Summarize(ctx, s.session.History())
	if err != nil {
		return "", err
	}

	path := SummaryPath(vaultPath, ticket)
	if err := os.WriteFile(path, []byte(summary), 0o644); err != nil {
		return "", fmt.Errorf("%w: write summary %s: %v", contractx.ErrInputValidation, path, err)
	}
	s.logger.Debug().Str("path", path).Int("chars", len(summary)).Msg("initial summary written")

	if err := s.session.Append(
		contractx.AssistantText(summary),
		contractx.UserText(s.prompts.Chatbot),
		contractx.AssistantText(Acknowledgement),
	); err != nil {
		return "", err
	}
	return summary, nil
}

// RunInteractive answers questions until the user types exit or input ends.
func (s *Service) RunInteractive(ctx context.Context, in contractx.LineReader, out contractx.Presenter) error {
	if in == nil || out == nil {
		return fmt.Errorf("%w: line reader and presenter are required", contractx.ErrValidation)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := in.ReadLine(ctx, QuestionPrompt)
		if errors.Is(err, io.EOF) {
			s.logger.Debug().Msg("input closed; ending session")
			return nil
		}
		if err != nil {
			return err
		}

		question := strings.TrimSpace(line)
		if strings.EqualFold(question, ExitCommand) {
			s.logger.Debug().Int("turns", s.session.Len()).Msg("session ended by user")
			return nil
		}
		if question == "" {
			out.Warn(InvalidQuestion)
			continue
		}

		if err := s.session.Append(contractx.UserText(question)); err != nil {
			return err
		}
		answer, err := s.engine.GetResponse(ctx, s.session)
		if err != nil {
			return err
		}
		if err := s.session.Append(contractx.AssistantText(answer)); err != nil {
			return err
		}
		out.Answer(answer)
	}
}

// SummaryPath names the summary file for ticket inside vaultPath. An empty
// vault means the working directory.
func SummaryPath(vaultPath, ticket string) string {
	name := DefaultSummaryMD
	if t := strings.TrimSpace(ticket); t != "" {
		name = t + ".md"
	}
	vault := strings.TrimSpace(vaultPath)
	if vault == "" {
		vault = "."
	}
	return filepath.Join(vault, name)
}
