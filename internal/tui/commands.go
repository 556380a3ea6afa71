package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/notebookconv/internal/delivery"
	"github.com/csheth/notebookconv/internal/session"
)

var errNoService = errors.New("no conversion service configured")

type probeResultMsg struct {
	result session.ProbeResult
}

type convertResultMsg struct {
	request session.Request
	result  session.ConvertResult
}

func probeJob(checker session.HealthChecker, started time.Time, now func() time.Time) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if checker == nil {
			return probeResultMsg{result: session.ProbeResult{Err: errNoService}}, errNoService
		}
		res := session.Probe(ctx, checker, started, now)
		return probeResultMsg{result: res}, res.Err
	}
}

func convertJob(conv session.Converter, host delivery.Host, req session.Request) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		if conv == nil || host == nil {
			res := session.ConvertResult{Err: errNoService}
			return convertResultMsg{request: req, result: res}, res.Err
		}
		res := session.Convert(ctx, conv, host, req)
		return convertResultMsg{request: req, result: res}, res.Err
	}
}
