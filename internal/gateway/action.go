package gateway

import (
	"strconv"
	"strings"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
)

// Console button payloads on the wire: "<name>:<numeric argument>".
const (
	actionAdd     = "admin_add"
	actionRedeem  = "admin_redeem"
	actionBank    = "admin_bank"
	actionHistory = "admin_history"
	actionSelect  = "admin_select"
	actionList    = "admin_list"
)

// ParseAdminAction turns a console button payload into a typed action.
// Validation happens here, once, so nothing past the transport boundary
// deals with raw strings.
func ParseAdminAction(payload string) (model.AdminAction, error) {
	name, arg, ok := strings.Cut(payload, ":")
	if !ok {
		return model.AdminAction{}, domainErrors.ErrInvalidInput
	}
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return model.AdminAction{}, domainErrors.ErrInvalidInput
	}

	switch name {
	case actionAdd, actionRedeem, actionBank, actionHistory, actionSelect:
		if n <= 0 {
			return model.AdminAction{}, domainErrors.ErrInvalidInput
		}
	case actionList:
		if n < 0 {
			n = 0
		}
		return model.AdminAction{Kind: model.AdminListPage, Page: int(n)}, nil
	default:
		return model.AdminAction{}, domainErrors.ErrInvalidInput
	}

	kinds := map[string]model.AdminActionKind{
		actionAdd:     model.AdminAddStamp,
		actionRedeem:  model.AdminRedeem,
		actionBank:    model.AdminBank,
		actionHistory: model.AdminHistory,
		actionSelect:  model.AdminSelect,
	}
	return model.AdminAction{Kind: kinds[name], MemberID: n}, nil
}

func formatAction(name string, arg int64) string {
	return name + ":" + strconv.FormatInt(arg, 10)
}
