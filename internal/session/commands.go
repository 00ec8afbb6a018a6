package session

import (
	"context"

	"go.uber.org/zap"

	"entityscrape/internal/chat"
	"entityscrape/internal/extract"
	"entityscrape/internal/tracker"
)

// Command is a host trigger token resolved to the action it runs.
type Command int

const (
	CommandUnknown Command = iota
	CommandDumpItems
	CommandItemMetadata
	CommandNPCMetadata
	CommandIcons
	CommandDumpNPCs
	CommandSaveChat
)

var commandTokens = map[string]Command{
	"dump":     CommandDumpItems,
	"items":    CommandItemMetadata,
	"npcs":     CommandNPCMetadata,
	"icons":    CommandIcons,
	"dumpnpcs": CommandDumpNPCs,
	"csave":    CommandSaveChat,
}

// ParseCommand matches token exactly; tokens are case-sensitive.
func ParseCommand(token string) (Command, bool) {
	cmd, ok := commandTokens[token]
	return cmd, ok
}

func (c Command) String() string {
	for token, cmd := range commandTokens {
		if cmd == c {
			return token
		}
	}
	return "unknown"
}

// Tokens lists every recognised trigger token.
func Tokens() []string {
	return []string{"dump", "items", "npcs", "icons", "dumpnpcs", "csave"}
}

// Report summarises what a command did.
type Report struct {
	Command string   `json:"command"`
	Known   bool     `json:"known"`
	Emitted int      `json:"emitted"`
	Written []string `json:"written,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (r *Report) addErrors(errs []error) {
	for _, err := range errs {
		r.Errors = append(r.Errors, err.Error())
	}
}

type handler func(ctx context.Context) Report

func (s *Session) registerHandlers() {
	s.handlers = map[Command]handler{
		CommandDumpItems:    s.dumpItems(extract.PipelineScraper),
		CommandItemMetadata: s.dumpItems(extract.PipelineMetadata),
		CommandNPCMetadata:  s.dumpNPCMetadata,
		CommandIcons:        s.dumpIcons,
		CommandDumpNPCs:     s.dumpLocations,
		CommandSaveChat:     s.saveChat,
	}
}

func (s *Session) runCommand(ctx context.Context, token string) Report {
	cmd, ok := ParseCommand(token)
	if !ok {
		s.log.Debug("ignoring unknown command", zap.String("token", token))
		return Report{Command: token}
	}
	h, ok := s.handlers[cmd]
	if !ok {
		return Report{Command: token}
	}

	report := h(ctx)
	report.Command = cmd.String()
	report.Known = true
	s.log.Info("command complete",
		zap.String("command", report.Command),
		zap.Int("emitted", report.Emitted),
		zap.Strings("written", report.Written),
		zap.Int("errors", len(report.Errors)))
	return report
}

func (s *Session) dumpItems(pipeline extract.Pipeline) handler {
	return func(ctx context.Context) Report {
		if s.extractor == nil {
			return Report{Errors: []string{"no composition source configured"}}
		}
		result := s.extractor.DumpItems(ctx, pipeline, extract.Options{
			Range:     s.cfg.Items,
			DumpIcons: s.cfg.DumpIcons,
		})
		report := Report{Emitted: result.Emitted, Written: result.Written}
		report.addErrors(result.Errors)
		return report
	}
}

func (s *Session) dumpNPCMetadata(ctx context.Context) Report {
	if s.extractor == nil {
		return Report{Errors: []string{"no composition source configured"}}
	}
	result := s.extractor.DumpNPCs(ctx, s.cfg.NPCs)
	report := Report{Emitted: result.Emitted, Written: result.Written}
	report.addErrors(result.Errors)
	return report
}

func (s *Session) dumpIcons(ctx context.Context) Report {
	if s.extractor == nil {
		return Report{Errors: []string{"no composition source configured"}}
	}
	result := s.extractor.DumpIcons(ctx, s.cfg.Icons)
	report := Report{Emitted: result.Written}
	report.addErrors(result.Errors)
	return report
}

func (s *Session) dumpLocations(ctx context.Context) Report {
	locations := s.tracker.Export()
	report := Report{Emitted: len(locations)}
	if err := s.sink.WriteJSON(tracker.ExportFile, locations); err != nil {
		s.log.Error("writing npc locations failed", zap.Error(err))
		report.Errors = append(report.Errors, err.Error())
		return report
	}
	report.Written = []string{tracker.ExportFile}
	return report
}

// saveChat clears the buffer whether or not the write succeeds.
func (s *Session) saveChat(ctx context.Context) Report {
	name := chat.FileName(s.now())
	messages := s.chat.Messages()
	s.chat.Clear()

	report := Report{Emitted: len(messages)}
	if err := s.sink.WriteJSON(name, messages); err != nil {
		s.log.Error("writing chat failed", zap.String("file", name), zap.Error(err))
		report.Errors = append(report.Errors, err.Error())
		return report
	}
	report.Written = []string{name}
	return report
}
