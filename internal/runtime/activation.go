package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/menube/internal/resolver"
	"github.com/aretw0/menube/pkg/domain"
)

// Activate acts on the highlighted node according to its kind.
//
// It reports whether anything happened. The error is non-nil only when the
// engine is, or just became, faulted; a failing command is reported through
// the command_completed event instead.
func (e *Engine) Activate(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var (
		ok  bool
		err error
	)
	e.locked(ctx, func(fx *effects) {
		ok, err = e.activate(fx)
	})
	return ok, err
}

func (e *Engine) activate(fx *effects) (bool, error) {
	if e.fault != nil {
		return false, domain.ErrEngineFaulted
	}
	cur, err := resolver.CurrentNode(e.root, e.path)
	if err != nil {
		return false, e.setFault(fx, "activate", err)
	}

	switch cur.Kind {
	case domain.KindSubmenu:
		return e.descend(fx)

	case domain.KindCommand:
		if e.rejectPending(fx, cur) {
			return false, nil
		}
		e.startCommand(fx, cur, cur.Command, cur.NotifyOn)
		return true, nil

	case domain.KindNotify:
		if cur.Event != "" {
			e.emit(fx, cur.Event, cur.Arguments...)
		}
		e.emit(fx, domain.EventNotifyDispatched)
		return true, nil

	case domain.KindOptions:
		if e.rejectPending(fx, cur) {
			return false, nil
		}
		e.startDiscovery(fx, cur)
		return true, nil

	case domain.KindOptionItem:
		return e.activateItem(fx, cur)

	default:
		return false, e.setFault(fx, "activate",
			fmt.Errorf("%w: %q has unknown kind %q", domain.ErrInvalidPath, cur.Label, cur.Kind))
	}
}

// activateItem closes the options submenu and runs its item script with
// the chosen label appended.
func (e *Engine) activateItem(fx *effects, item *domain.Node) (bool, error) {
	menu, err := resolver.ParentNode(e.root, e.path)
	if err != nil {
		return false, e.setFault(fx, "activate", err)
	}
	if !menu.IsEphemeralMenu() {
		return false, e.setFault(fx, "activate",
			fmt.Errorf("%w: option item %q outside an options menu", domain.ErrInvalidPath, item.Label))
	}

	command := menu.ItemScript + " " + item.Label
	notifyOn := menu.NotifyOn
	if !e.backOut(fx) {
		return false, e.fault
	}
	e.startCommand(fx, nil, command, notifyOn)
	return true, nil
}

func (e *Engine) rejectPending(fx *effects, node *domain.Node) bool {
	if !e.pendingGuard || e.pending[node] == 0 {
		return false
	}
	e.logger.Info("activation rejected, command still running", "label", node.Label)
	e.emit(fx, domain.EventActivationRejected, node.Label)
	return true
}

// startCommand schedules a command. owner, when set, is the node whose
// outstanding commands the pending guard counts.
func (e *Engine) startCommand(fx *effects, owner *domain.Node, command, notifyOn string) {
	e.pending[owner]++
	fx.runs = append(fx.runs, run{
		command: command,
		done: func(res domain.CommandResult) {
			e.completeCommand(owner, res, notifyOn)
		},
	})
}

func (e *Engine) completeCommand(owner *domain.Node, res domain.CommandResult, notifyOn string) {
	e.locked(e.ctx, func(fx *effects) {
		e.release(owner)
		if res.Failed() {
			e.logger.Warn("command failed", "command", res.Command, "exit_code", res.ExitCode, "err", res.Err)
		} else {
			e.logger.Debug("command completed", "command", res.Command, "duration", res.Duration)
		}
		e.emitResult(fx, domain.EventCommandCompleted, res)
		if notifyOn != "" {
			e.emitResult(fx, notifyOn, res, res.Err, res.Stdout, res.Stderr)
		}
		fx.completed = &res
	})
}

func (e *Engine) startDiscovery(fx *effects, source *domain.Node) {
	e.pending[source]++
	fx.runs = append(fx.runs, run{
		command: source.DiscoveryCommand,
		done: func(res domain.CommandResult) {
			e.completeDiscovery(source, res)
		},
	})
}

// completeDiscovery splices the options submenu in place of source and
// enters it. The result is dropped when the cursor has left source or the
// engine has faulted in the meantime, so output never lands on the
// sibling the cursor moved to.
func (e *Engine) completeDiscovery(source *domain.Node, res domain.CommandResult) {
	e.locked(e.ctx, func(fx *effects) {
		e.release(source)
		fx.completed = &res
		if res.Failed() {
			e.logger.Warn("discovery command failed", "command", res.Command, "exit_code", res.ExitCode, "err", res.Err)
		}

		if e.fault != nil {
			return
		}
		container, err := resolver.Container(e.root, e.path)
		if err != nil {
			e.setFault(fx, "options", err)
			return
		}
		idx := e.path.Last()
		if idx >= len(container.Children) || container.Children[idx] != source {
			e.logger.Info("options discarded, selection moved", "label", source.Label, "path", e.path.String())
			e.emit(fx, domain.EventOptionsDiscarded, source.Label)
			return
		}

		menu := optionsMenu(source, res.Stdout)
		container.Children[idx] = menu
		e.logger.Debug("options menu spliced", "label", source.Label, "items", len(menu.Children))

		if !menu.HasChildren() {
			// Nothing to enter: the label stays as a dead end.
			e.pathChanged(fx)
			return
		}
		if _, err := e.activate(fx); err != nil {
			e.logger.Error("entering options menu", "err", err)
		}
	})
}

func (e *Engine) release(owner *domain.Node) {
	if e.pending[owner] <= 1 {
		delete(e.pending, owner)
		return
	}
	e.pending[owner]--
}

// optionsMenu turns discovery output into an ephemeral submenu, one item
// per non-empty line.
func optionsMenu(source *domain.Node, stdout string) *domain.Node {
	lines := strings.Split(stdout, "\n")
	items := make([]*domain.Node, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		items = append(items, &domain.Node{
			Label:     line,
			Kind:      domain.KindOptionItem,
			Ephemeral: true,
		})
	}
	return &domain.Node{
		Label:      source.Label,
		Kind:       domain.KindSubmenu,
		Children:   items,
		Ephemeral:  true,
		Origin:     source,
		ItemScript: source.ItemScript,
		NotifyOn:   source.NotifyOn,
	}
}
