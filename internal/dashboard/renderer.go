package dashboard

import (
	"github.com/b0ase/path402/apps/aveumdash/internal/status"
)

// Page is the set of element writes the renderer needs. Every method
// returns false when the element is absent; the renderer ignores that.
type Page interface {
	SetText(id, text string) bool
	SetClass(id, class string) bool
	SetDisabled(id string, disabled bool) bool
	ScrollToBottom(id string) bool
}

const (
	BadgePositive = "badge bg-success"
	BadgeNegative = "badge bg-danger"
)

// Renderer projects a snapshot onto a Page. It keeps no state: each call
// overwrites whatever the previous one wrote.
type Renderer struct {
	page Page
	fmt  status.Formatter
}

func NewRenderer(p Page, f status.Formatter) *Renderer {
	return &Renderer{page: p, fmt: f}
}

// Badge writes a label and picks the positive or negative style.
func Badge(p Page, id, label string, positive bool) {
	p.SetText(id, label)
	if positive {
		p.SetClass(id, BadgePositive)
	} else {
		p.SetClass(id, BadgeNegative)
	}
}

// Render writes every snapshot field into its element.
func (r *Renderer) Render(s *status.Snapshot) {
	p := r.page

	// Account
	p.SetText(IDAveumEmail, s.AveumEmail)
	Badge(p, IDLoginStatus, pick(s.LoginStatus, "Logged In", "Not Logged In"), s.LoginStatus)
	p.SetText(IDDeviceID, s.DeviceID)
	p.SetText(IDDeviceModel, s.DeviceModel)
	p.SetText(IDPlatformVersion, s.PlatformVersion)

	// Mode is informational, never a warning
	Badge(p, IDCurrentMode, pick(s.MiningActive, "Mining", "Auto-Like"), true)

	// Mining
	Badge(p, IDMiningStatus, pick(s.IsMining, "Active", "Inactive"), s.IsMining)
	p.SetText(IDCurrentBalance, status.FormatNumber(s.CurrentBalance))
	p.SetText(IDTotalRewards, status.FormatNumber(s.TotalRewards))
	p.SetText(IDMiningSessions, status.FormatNumber(s.MiningSessionsCompleted))
	p.SetText(IDMiningErrors, status.FormatNumber(s.MiningErrors))

	// Auto-like
	Badge(p, IDAutoLikeStatus, pick(s.AutoLikeActive, "Active", "Inactive"), s.AutoLikeActive)
	p.SetText(IDTotalLikes, status.FormatNumber(s.TotalLikes))
	p.SetText(IDDailyLikes, status.FormatNumber(s.DailyLikes))
	p.SetText(IDLikeErrors, status.FormatNumber(s.LikeErrors))

	// Ban: not banned is the good state
	Badge(p, IDBanStatus, pick(s.IsBanned, "Banned", "Not Banned"), !s.IsBanned)
	p.SetText(IDLastBanCheck, r.fmt.DateTime(s.LastBanCheckTime))

	if s.LastActivity != "" && p.SetText(IDActivityLog, s.LastActivity) {
		p.ScrollToBottom(IDActivityLog)
	}

	// Controls. Mining and auto-like are exclusive modes; only the UI
	// enforces that here.
	p.SetDisabled(IDStartMining, s.IsMining)
	p.SetDisabled(IDStopMining, !s.IsMining)
	p.SetDisabled(IDToggleAutoLike, s.MiningActive)
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
