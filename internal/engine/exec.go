package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"

	"github.com/George-br/WorldVoice/internal/config"
	"github.com/George-br/WorldVoice/internal/protocol"
	"github.com/mattn/go-shellwords"
)

// execBinding shells out to an external synthesizer, one process per
// utterance, JSON request on stdin. The process exiting zero is the
// completion signal.
type execBinding struct {
	ranges

	cmd []string
	mu  sync.Mutex
}

type execRequest struct {
	Text    string `json:"text"`
	Lang    string `json:"lang"`
	Voice   string `json:"voice"`
	Variant string `json:"variant,omitempty"`
	Rate    int    `json:"rate"`
	Pitch   int    `json:"pitch"`
	Volume  int    `json:"volume"`
}

func NewExec(cfg config.EngineConfig) (Binding, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("parse engine command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("engine %q: command empty", cfg.Name)
	}
	return &execBinding{ranges: rangesFromConfig(cfg), cmd: args}, nil
}

func (e *execBinding) Speak(ctx context.Context, msg protocol.DirectiveMessage) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	req := execRequest{
		Text:   msg.Text,
		Lang:   msg.Lang,
		Voice:  msg.Voice,
		Rate:   ScaleRate(msg.Speed, e.rate[0], e.rate[1], e.rateBoost),
		Pitch:  Scale(msg.Pitch, e.pitch[0], e.pitch[1]),
		Volume: Scale(msg.Volume, e.volume[0], e.volume[1]),
	}
	if e.variants {
		req.Variant = msg.Variant
	}
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}

	base := e.cmd[0]
	args := append([]string{}, e.cmd[1:]...)
	cmd := exec.CommandContext(ctx, base, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	if _, err := stdin.Write(data); err != nil {
		stdin.Close()
		cmd.Wait()
		return err
	}
	stdin.Close()
	return cmd.Wait()
}
