// Package dashboard renders status snapshots onto the dashboard page and
// keeps them fresh with a periodic poll.
package dashboard

import (
	"github.com/b0ase/path402/apps/aveumdash/internal/notify"
	"github.com/b0ase/path402/apps/aveumdash/internal/page"
)

// Element ids on the dashboard page.
const (
	IDAveumEmail      = "aveum-email"
	IDLoginStatus     = "login-status"
	IDDeviceID        = "device-id"
	IDDeviceModel     = "device-model"
	IDPlatformVersion = "platform-version"
	IDCurrentMode     = "current-mode"
	IDMiningStatus    = "mining-status"
	IDCurrentBalance  = "current-balance"
	IDTotalRewards    = "total-rewards"
	IDMiningSessions  = "mining-sessions"
	IDMiningErrors    = "mining-errors"
	IDAutoLikeStatus  = "auto-like-status"
	IDTotalLikes      = "total-likes"
	IDDailyLikes      = "daily-likes"
	IDLikeErrors      = "like-errors"
	IDBanStatus       = "ban-status"
	IDLastBanCheck    = "last-ban-check"
	IDActivityLog     = "activity-log"

	IDStartMining    = "start-mining"
	IDStopMining     = "stop-mining"
	IDToggleAutoLike = "toggle-auto-like"
	IDRefreshToken   = "refresh-token"
	IDSwitchMode     = "switch-mode"
	IDCheckBan       = "check-ban"
)

var textIDs = []string{
	IDAveumEmail, IDDeviceID, IDDeviceModel, IDPlatformVersion,
	IDCurrentBalance, IDTotalRewards, IDMiningSessions, IDMiningErrors,
	IDTotalLikes, IDDailyLikes, IDLikeErrors, IDLastBanCheck,
}

var badgeIDs = []string{
	IDLoginStatus, IDCurrentMode, IDMiningStatus, IDAutoLikeStatus, IDBanStatus,
}

// ButtonIDs lists the control buttons in page order.
var ButtonIDs = []string{
	IDRefreshToken, IDSwitchMode, IDStartMining, IDStopMining, IDToggleAutoLike, IDCheckBan,
}

// Layout returns the full dashboard page: every element inside the main
// container. The toast container is not part of it; the toaster creates it
// on first use.
func Layout() []page.Spec {
	specs := []page.Spec{{ID: notify.MainContainerID, Tag: "div", Class: "container"}}
	for _, id := range textIDs {
		specs = append(specs, page.Spec{ID: id, Tag: "span", Parent: notify.MainContainerID})
	}
	for _, id := range badgeIDs {
		specs = append(specs, page.Spec{ID: id, Tag: "span", Class: "badge", Parent: notify.MainContainerID})
	}
	specs = append(specs, page.Spec{ID: IDActivityLog, Tag: "pre", Parent: notify.MainContainerID})
	for _, id := range ButtonIDs {
		specs = append(specs, page.Spec{ID: id, Tag: "button", Class: "btn", Parent: notify.MainContainerID})
	}
	return specs
}

// ButtonLabels is the caption of each control button.
var ButtonLabels = map[string]string{
	IDRefreshToken:   "Refresh Token",
	IDSwitchMode:     "Switch Mode",
	IDStartMining:    "Start Mining",
	IDStopMining:     "Stop Mining",
	IDToggleAutoLike: "Toggle Auto-Like",
	IDCheckBan:       "Check Ban Status",
}

// NewDocument builds a document with the full dashboard layout and
// captioned buttons.
func NewDocument() *page.Document {
	doc := page.NewFromSpecs(Layout()...)
	for id, label := range ButtonLabels {
		doc.SetText(id, label)
	}
	return doc
}
