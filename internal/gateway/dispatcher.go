package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/pkg/token"
	"github.com/polkiloo/stampcard/internal/session"
	"github.com/polkiloo/stampcard/internal/usecase"
)

const (
	msgWelcome        = "Welcome to the stamp card! Use the menu below."
	msgMenuHint       = "Use the menu below."
	msgPasswordPrompt = "Enter the operator password:"
	msgTargetPrompt   = "Member pre-selected. Enter the operator password:"
	msgAuthenticated  = "Password accepted. Scan a member code or send a member id:"
	msgWrongPassword  = "❌ Wrong password."
	msgPromptExpired  = "Password prompt expired. Send /admin again."
	msgNotFound       = "Member not found."
	msgInvalidInput   = "Send a numeric member id."
	msgUnauthorized   = "Not authorized. Send /admin first."
	msgNotRegistered  = "Send /start first."
	msgShowToken      = "Show this code to the barista to collect stamps."
	msgNoHistory      = "No history yet."
)

// Dispatcher classifies inbound transport events and routes them through the
// member view, the session manager, and the operator console.
type Dispatcher struct {
	members      *usecase.MemberUseCase
	admin        *usecase.AdminUseCase
	ledger       *usecase.LedgerUseCase
	sessions     *session.Manager
	tokens       *token.Codec
	pageSize     int
	historyLimit int
	logger       *slog.Logger
}

// NewDispatcher constructs the event dispatcher.
func NewDispatcher(
	members *usecase.MemberUseCase,
	admin *usecase.AdminUseCase,
	ledger *usecase.LedgerUseCase,
	sessions *session.Manager,
	tokens *token.Codec,
	pageSize, historyLimit int,
	logger *slog.Logger,
) *Dispatcher {
	if pageSize <= 0 {
		pageSize = 5
	}
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Dispatcher{
		members:      members,
		admin:        admin,
		ledger:       ledger,
		sessions:     sessions,
		tokens:       tokens,
		pageSize:     pageSize,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Dispatch handles a single inbound event and renders the reply. Domain
// rejections (not found, wrong password, unauthorized, invalid input) become
// user-visible replies; anything else propagates as a transport error.
func (d *Dispatcher) Dispatch(ctx context.Context, ev InboundEvent) (*Response, error) {
	if ev.ActorID <= 0 {
		return nil, domainErrors.ErrInvalidInput
	}
	switch ev.Kind {
	case EventCommand:
		return d.handleCommand(ctx, ev)
	case EventButton:
		return d.handleButton(ctx, ev)
	case EventText:
		return d.handleText(ctx, ev)
	default:
		return nil, domainErrors.ErrInvalidInput
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, ev InboundEvent) (*Response, error) {
	fields := strings.Fields(ev.Payload)
	if len(fields) == 0 {
		return &Response{Text: msgMenuHint, Keyboard: memberKeyboard()}, nil
	}
	name := strings.TrimPrefix(fields[0], "/")
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch name {
	case "start":
		if arg != "" && d.tokens.IsToken(arg) {
			return d.handleTokenArrival(ctx, ev.ActorID, arg)
		}
		if _, err := d.members.Register(ctx, ev.ActorID, ev.DisplayName, ev.Username); err != nil {
			return d.errorResponse(err)
		}
		return &Response{Text: msgWelcome, Keyboard: memberKeyboard()}, nil
	case "admin":
		return d.handleAdminCommand(ctx, ev.ActorID)
	default:
		return &Response{Text: msgMenuHint, Keyboard: memberKeyboard()}, nil
	}
}

// handleTokenArrival covers an operator scanning a member's targeting token.
// The member must exist before any session state changes.
func (d *Dispatcher) handleTokenArrival(ctx context.Context, operatorID int64, arg string) (*Response, error) {
	memberID, err := d.tokens.Parse(arg)
	if err != nil {
		return &Response{Text: msgInvalidInput}, nil
	}
	if _, err := d.ledger.GetMember(ctx, memberID); err != nil {
		return d.errorResponse(err)
	}

	if d.sessions.State(operatorID).State == model.SessionAuthenticated {
		member, err := d.admin.SelectMember(ctx, operatorID, memberID)
		if err != nil {
			return d.errorResponse(err)
		}
		return d.panel(member, ""), nil
	}

	d.sessions.BeginLogin(operatorID, &memberID)
	return &Response{Text: msgTargetPrompt}, nil
}

// handleAdminCommand: an authenticated operator is never re-prompted, the
// console is simply presented again.
func (d *Dispatcher) handleAdminCommand(ctx context.Context, operatorID int64) (*Response, error) {
	snap := d.sessions.State(operatorID)
	if snap.State == model.SessionAuthenticated {
		if snap.Selected != nil {
			member, err := d.admin.SelectMember(ctx, operatorID, *snap.Selected)
			if err == nil {
				return d.panel(member, ""), nil
			}
		}
		return d.listPage(ctx, operatorID, 0)
	}

	d.sessions.BeginLogin(operatorID, nil)
	return &Response{Text: msgPasswordPrompt}, nil
}

func (d *Dispatcher) handleButton(ctx context.Context, ev InboundEvent) (*Response, error) {
	switch ev.Payload {
	case "show_stamps":
		status, err := d.members.OwnStatus(ctx, ev.ActorID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return &Response{Text: msgNotRegistered}, nil
			}
			return d.errorResponse(err)
		}
		text := fmt.Sprintf("Your stamps: %d/10\n%s\nRewards banked: %d", status.Stamps, status.Bar, status.RewardBank)
		return &Response{Text: text, Keyboard: memberKeyboard()}, nil
	case "send_token":
		_, link := d.members.TargetingToken(ev.ActorID)
		return &Response{Text: msgShowToken, ImageLink: link, Keyboard: memberKeyboard()}, nil
	}

	action, err := ParseAdminAction(ev.Payload)
	if err != nil {
		return d.errorResponse(err)
	}
	return d.handleAdminAction(ctx, ev.ActorID, action)
}

func (d *Dispatcher) handleAdminAction(ctx context.Context, operatorID int64, action model.AdminAction) (*Response, error) {
	switch action.Kind {
	case model.AdminAddStamp:
		member, err := d.admin.AddStampFor(ctx, operatorID, action.MemberID)
		if err != nil {
			return d.errorResponse(err)
		}
		return d.panel(member, fmt.Sprintf("Stamp added, %d/10.", member.Stamps)), nil
	case model.AdminRedeem:
		member, err := d.admin.RedeemFor(ctx, operatorID, action.MemberID, false)
		if err != nil {
			return d.errorResponse(err)
		}
		return d.panel(member, "Reward issued, stamps reset."), nil
	case model.AdminBank:
		member, err := d.admin.RedeemFor(ctx, operatorID, action.MemberID, true)
		if err != nil {
			return d.errorResponse(err)
		}
		return d.panel(member, "Reward banked."), nil
	case model.AdminHistory:
		entries, err := d.admin.HistoryFor(ctx, operatorID, action.MemberID, d.historyLimit)
		if err != nil {
			return d.errorResponse(err)
		}
		return historyResponse(action.MemberID, entries), nil
	case model.AdminSelect:
		member, err := d.admin.SelectMember(ctx, operatorID, action.MemberID)
		if err != nil {
			return d.errorResponse(err)
		}
		return d.panel(member, ""), nil
	case model.AdminListPage:
		return d.listPage(ctx, operatorID, action.Page)
	default:
		return d.errorResponse(domainErrors.ErrInvalidInput)
	}
}

func (d *Dispatcher) handleText(ctx context.Context, ev InboundEvent) (*Response, error) {
	text := strings.TrimSpace(ev.Payload)
	snap := d.sessions.State(ev.ActorID)

	switch snap.State {
	case model.SessionAwaitingPassword:
		target, err := d.sessions.SubmitPassword(ev.ActorID, text)
		switch {
		case errors.Is(err, domainErrors.ErrWrongPassword):
			return &Response{Text: msgWrongPassword}, nil
		case errors.Is(err, domainErrors.ErrUnauthorized):
			return &Response{Text: msgPromptExpired}, nil
		case err != nil:
			return d.errorResponse(err)
		}
		if target != nil {
			member, err := d.admin.SelectMember(ctx, ev.ActorID, *target)
			if err != nil {
				return d.errorResponse(err)
			}
			return d.panel(member, ""), nil
		}
		resp, err := d.listPage(ctx, ev.ActorID, 0)
		if err != nil {
			return nil, err
		}
		resp.Text = msgAuthenticated + "\n" + resp.Text
		return resp, nil

	case model.SessionAuthenticated:
		memberID, err := strconv.ParseInt(text, 10, 64)
		if err != nil || memberID <= 0 {
			return &Response{Text: msgInvalidInput}, nil
		}
		member, err := d.admin.SelectMember(ctx, ev.ActorID, memberID)
		if err != nil {
			return d.errorResponse(err)
		}
		return d.panel(member, ""), nil

	default:
		if _, err := d.members.Register(ctx, ev.ActorID, ev.DisplayName, ev.Username); err != nil {
			return d.errorResponse(err)
		}
		return &Response{Text: msgMenuHint, Keyboard: memberKeyboard()}, nil
	}
}

func (d *Dispatcher) listPage(ctx context.Context, operatorID int64, page int) (*Response, error) {
	members, err := d.admin.ListPage(ctx, operatorID, page, d.pageSize)
	if err != nil {
		return d.errorResponse(err)
	}
	return listResponse(members), nil
}

func (d *Dispatcher) errorResponse(err error) (*Response, error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return &Response{Text: msgNotFound}, nil
	case errors.Is(err, domainErrors.ErrInvalidInput):
		return &Response{Text: msgInvalidInput}, nil
	case errors.Is(err, domainErrors.ErrUnauthorized):
		return &Response{Text: msgUnauthorized}, nil
	case errors.Is(err, domainErrors.ErrWrongPassword):
		return &Response{Text: msgWrongPassword}, nil
	default:
		d.logger.Error("dispatch failed", slog.String("error", err.Error()))
		return nil, err
	}
}

// --- rendering ---

func memberKeyboard() [][]Button {
	return [][]Button{
		{{Label: "☕ My stamps", Action: "show_stamps"}},
		{{Label: "🔳 My code", Action: "send_token"}},
	}
}

func (d *Dispatcher) panel(m *model.Member, note string) *Response {
	text := fmt.Sprintf("%s | Stamps: %d/10 | Bank: %d", memberName(m), m.Stamps, m.RewardBank)
	if note != "" {
		text = note + "\n" + text
	}
	return &Response{
		Text: text,
		Keyboard: [][]Button{
			{{Label: "➕ Add stamp", Action: formatAction(actionAdd, m.ID)}},
			{{Label: "🎁 Issue reward", Action: formatAction(actionRedeem, m.ID)}},
			{{Label: "💾 Bank reward", Action: formatAction(actionBank, m.ID)}},
			{{Label: "📜 History", Action: formatAction(actionHistory, m.ID)}},
			{{Label: "📋 Members", Action: formatAction(actionList, 0)}},
		},
	}
}

func listResponse(page *model.MemberPage) *Response {
	text := fmt.Sprintf("Members — page %d/%d", page.Page+1, page.TotalPages)
	keyboard := make([][]Button, 0, len(page.Members)+1)
	for _, m := range page.Members {
		label := fmt.Sprintf("%s — %d/10, bank %d", memberName(&m), m.Stamps, m.RewardBank)
		keyboard = append(keyboard, []Button{{Label: label, Action: formatAction(actionSelect, m.ID)}})
	}

	var nav []Button
	if page.HasPrev {
		nav = append(nav, Button{Label: "⬅️", Action: formatAction(actionList, int64(page.Page-1))})
	}
	if page.HasNext {
		nav = append(nav, Button{Label: "➡️", Action: formatAction(actionList, int64(page.Page+1))})
	}
	if len(nav) > 0 {
		keyboard = append(keyboard, nav)
	}

	return &Response{Text: text, Keyboard: keyboard}
}

func historyResponse(memberID int64, entries []model.HistoryEntry) *Response {
	if len(entries) == 0 {
		return &Response{Text: msgNoHistory}
	}
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, fmt.Sprintf("History for %d:", memberID))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s — %s", e.CreatedAt.Format("2006-01-02 15:04"), e.Description))
	}
	return &Response{Text: strings.Join(lines, "\n")}
}

func memberName(m *model.Member) string {
	if m.Username != "" {
		return "@" + m.Username
	}
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return strconv.FormatInt(m.ID, 10)
}
