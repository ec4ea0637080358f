package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/getlantern/systray"

	"github.com/b0ase/path402/apps/aveumdash/internal/dashboard"
	"github.com/b0ase/path402/apps/aveumdash/internal/notify"
	"github.com/b0ase/path402/apps/aveumdash/internal/page"
	"github.com/b0ase/path402/apps/aveumdash/internal/status"
)

var Version = "0.1.0"

const (
	dashboardPort = 8403
	pollInterval  = 2 * time.Second
)

// field mirrors one page element as a read-only menu line.
type field struct {
	id    string
	label string
	item  *systray.MenuItem
}

type section struct {
	title  string
	fields []*field
}

type trayApp struct {
	mu         sync.Mutex
	daemonCmd  *exec.Cmd
	ownsDaemon bool
	configPath string
	noticeID   string // close button of the notification shown, if any
	email      string

	mTitle  *systray.MenuItem
	mUptime *systray.MenuItem

	sections []section
	buttons  map[string]*systray.MenuItem
	mNotice  *systray.MenuItem

	mDashboard *systray.MenuItem
	mCopyEmail *systray.MenuItem
	mQuit      *systray.MenuItem
}

func newSections() []section {
	f := func(id, label string) *field { return &field{id: id, label: label} }
	return []section{
		{"👤 ACCOUNT", []*field{
			f(dashboard.IDAveumEmail, "📧 Email"),
			f(dashboard.IDLoginStatus, "🔐 Login"),
			f(dashboard.IDDeviceID, "🆔 Device"),
			f(dashboard.IDDeviceModel, "📱 Model"),
			f(dashboard.IDPlatformVersion, "⚙️ Platform"),
			f(dashboard.IDBanStatus, "🚫 Ban"),
			f(dashboard.IDLastBanCheck, "🕒 Last Check"),
		}},
		{"⛏  MINING", []*field{
			f(dashboard.IDCurrentMode, "🎛 Mode"),
			f(dashboard.IDMiningStatus, "🔶 Status"),
			f(dashboard.IDCurrentBalance, "💰 Balance"),
			f(dashboard.IDTotalRewards, "🏆 Rewards"),
			f(dashboard.IDMiningSessions, "📦 Sessions"),
			f(dashboard.IDMiningErrors, "⚠️ Errors"),
		}},
		{"👍 AUTO-LIKE", []*field{
			f(dashboard.IDAutoLikeStatus, "🔁 Status"),
			f(dashboard.IDTotalLikes, "❤️ Total"),
			f(dashboard.IDDailyLikes, "📅 Today"),
			f(dashboard.IDLikeErrors, "⚠️ Errors"),
		}},
	}
}

func main() {
	app := &trayApp{}

	for i, arg := range os.Args[1:] {
		if arg == "-config" && i+1 < len(os.Args)-1 {
			app.configPath = os.Args[i+2]
		}
	}

	systray.Run(app.onReady, app.onExit)
}

func (a *trayApp) onReady() {
	systray.SetIcon(iconData)
	systray.SetTooltip("Aveum Dashboard v" + Version)

	// ── Header ──────────────────────────────────
	a.mTitle = systray.AddMenuItem("🟠 Aveum Dashboard v"+Version, "")
	a.mTitle.Disable()
	a.mUptime = systray.AddMenuItem("     ⏱ Uptime: starting...", "")
	a.mUptime.Disable()

	// ── Mirrored fields ─────────────────────────
	a.sections = newSections()
	for _, s := range a.sections {
		systray.AddSeparator()
		h := systray.AddMenuItem(s.title, "")
		h.Disable()
		for _, f := range s.fields {
			f.item = systray.AddMenuItem("     "+f.label+": --", "")
			f.item.Disable()
		}
	}

	systray.AddSeparator()

	// ── Notifications ───────────────────────────
	a.mNotice = systray.AddMenuItem("     🔔 No notifications", "Click to dismiss")
	a.mNotice.Disable()

	systray.AddSeparator()

	// ── Commands ────────────────────────────────
	a.buttons = make(map[string]*systray.MenuItem, len(dashboard.ButtonIDs))
	for _, id := range dashboard.ButtonIDs {
		item := systray.AddMenuItem("▶️ "+dashboard.ButtonLabels[id], "")
		item.Disable()
		a.buttons[id] = item
	}

	systray.AddSeparator()

	// ── Actions ─────────────────────────────────
	a.mDashboard = systray.AddMenuItem("🖥  Open Dashboard", "Open the Aveum dashboard in a browser")
	a.mCopyEmail = systray.AddMenuItem("📋 Copy Email", "Copy the account email to the clipboard")

	systray.AddSeparator()

	a.mQuit = systray.AddMenuItem("Quit Aveum Dashboard", "Stop the dashboard and quit")

	// Start daemon if not already running
	if !a.isDaemonRunning() {
		a.startDaemon()
	}

	go a.pollLoop()
	go a.handleClicks()
	for id, item := range a.buttons {
		go a.forwardClicks(id, item)
	}
}

func (a *trayApp) onExit() {
	a.stopDaemon()
}

func baseURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", dashboardPort)
}

func (a *trayApp) isDaemonRunning() bool {
	resp, err := http.Get(baseURL() + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == 200
}

func (a *trayApp) startDaemon() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.daemonCmd != nil {
		return
	}

	binaryPath := "aveumdash"
	if exe, err := os.Executable(); err == nil {
		dir := exe[:strings.LastIndex(exe, "/")+1]
		candidate := dir + "aveumdash"
		if _, err := os.Stat(candidate); err == nil {
			binaryPath = candidate
		}
	}

	args := []string{}
	if a.configPath != "" {
		args = append(args, "-config", a.configPath)
	}

	a.daemonCmd = exec.Command(binaryPath, args...)
	a.daemonCmd.Stdout = os.Stdout
	a.daemonCmd.Stderr = os.Stderr
	a.daemonCmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := a.daemonCmd.Start(); err != nil {
		log.Printf("[tray] Failed to start daemon: %v", err)
		a.daemonCmd = nil
		return
	}

	a.ownsDaemon = true
	log.Printf("[tray] Started daemon (PID %d)", a.daemonCmd.Process.Pid)

	go func() {
		if err := a.daemonCmd.Wait(); err != nil {
			log.Printf("[tray] Daemon exited: %v", err)
		}
		a.mu.Lock()
		a.daemonCmd = nil
		a.ownsDaemon = false
		a.mu.Unlock()
	}()

	for i := 0; i < 30; i++ {
		time.Sleep(500 * time.Millisecond)
		if a.isDaemonRunning() {
			log.Println("[tray] Daemon is ready")
			return
		}
	}
	log.Println("[tray] WARNING: Daemon did not become ready within 15s")
}

func (a *trayApp) stopDaemon() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.daemonCmd == nil || !a.ownsDaemon {
		return
	}

	log.Println("[tray] Stopping daemon...")
	a.daemonCmd.Process.Signal(syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		a.daemonCmd.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[tray] Daemon stopped cleanly")
	case <-time.After(5 * time.Second):
		log.Println("[tray] Daemon did not stop, sending SIGKILL")
		a.daemonCmd.Process.Kill()
	}
	a.daemonCmd = nil
}

func (a *trayApp) pollLoop() {
	a.updateStatus()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			a.updateStatus()
		case <-sigCh:
			systray.Quit()
			return
		}
	}
}

func (a *trayApp) updateStatus() {
	elements := a.fetchElements()
	if elements == nil {
		for _, s := range a.sections {
			for _, f := range s.fields {
				f.item.SetTitle("     " + f.label + ": --")
			}
		}
		for _, item := range a.buttons {
			item.Disable()
		}
		a.setNotice("", "")
		a.mUptime.SetTitle("     ⏱ Uptime: offline")
		systray.SetTooltip("Aveum Dashboard - Offline")
		return
	}

	byID := make(map[string]page.Element, len(elements))
	for _, e := range elements {
		byID[e.ID] = e
	}

	for _, s := range a.sections {
		for _, f := range s.fields {
			text := byID[f.id].Text
			if text == "" {
				text = "--"
			}
			f.item.SetTitle(fmt.Sprintf("     %s: %s", f.label, text))
		}
	}

	for id, item := range a.buttons {
		e, ok := byID[id]
		if ok && e.Text != "" {
			item.SetTitle("▶️ " + e.Text)
		}
		if ok && !e.Disabled {
			item.Enable()
		} else {
			item.Disable()
		}
	}

	a.setNotice(latestNotice(elements))

	a.mu.Lock()
	a.email = byID[dashboard.IDAveumEmail].Text
	a.mu.Unlock()

	if h := a.fetchHealth(); h != nil {
		a.mUptime.SetTitle(fmt.Sprintf("     ⏱ %s", formatUptime(h.UptimeMs)))
	}

	systray.SetTooltip(fmt.Sprintf("Aveum - %s | Balance %s | Likes %s",
		byID[dashboard.IDMiningStatus].Text,
		byID[dashboard.IDCurrentBalance].Text,
		byID[dashboard.IDTotalLikes].Text))
}

// latestNotice picks the newest toast, or failing that the newest alert,
// and returns its text and close button id.
func latestNotice(elements []page.Element) (text, closeID string) {
	for _, e := range elements {
		if e.Parent == notify.ToastContainerID {
			text, closeID = e.Text, e.ID+"-close"
		}
	}
	if closeID != "" {
		return text, closeID
	}
	for _, e := range elements {
		if e.Parent == notify.MainContainerID && strings.HasPrefix(e.Class, "alert ") {
			// Alerts are prepended, so the first one is the newest.
			return e.Text, e.ID + "-close"
		}
	}
	return "", ""
}

func (a *trayApp) setNotice(text, closeID string) {
	a.mu.Lock()
	a.noticeID = closeID
	a.mu.Unlock()

	if closeID == "" {
		a.mNotice.SetTitle("     🔔 No notifications")
		a.mNotice.Disable()
		return
	}
	a.mNotice.SetTitle("     🔔 " + text)
	a.mNotice.Enable()
}

type health struct {
	UptimeMs int64 `json:"uptime_ms"`
}

func (a *trayApp) fetchHealth() *health {
	data, err := fetchJSON(baseURL() + "/health")
	if err != nil {
		return nil
	}
	var h health
	if err := json.Unmarshal(data, &h); err != nil {
		return nil
	}
	return &h
}

func (a *trayApp) fetchElements() []page.Element {
	data, err := fetchJSON(baseURL() + "/page/elements")
	if err != nil {
		return nil
	}
	var els []page.Element
	if err := json.Unmarshal(data, &els); err != nil {
		return nil
	}
	return els
}

func fetchJSON(url string) ([]byte, error) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// click forwards a menu click to the page element with the same id.
func click(id string) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Post(baseURL()+"/page/click/"+id, "application/json", nil)
	if err != nil {
		log.Printf("[tray] Click %s: %v", id, err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		log.Printf("[tray] Click %s: HTTP %d", id, resp.StatusCode)
	}
}

func (a *trayApp) forwardClicks(id string, item *systray.MenuItem) {
	for range item.ClickedCh {
		click(id)
	}
}

func formatUptime(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60

	if hours >= 24 {
		days := hours / 24
		hours = hours % 24
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

func (a *trayApp) handleClicks() {
	for {
		select {
		case <-a.mNotice.ClickedCh:
			a.mu.Lock()
			id := a.noticeID
			a.mu.Unlock()
			if id != "" {
				click(id)
			}

		case <-a.mDashboard.ClickedCh:
			openBrowser(baseURL())

		case <-a.mCopyEmail.ClickedCh:
			a.mu.Lock()
			email := a.email
			a.mu.Unlock()
			if email != "" && email != status.NotSet {
				copyToClipboard(email)
			}

		case <-a.mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		cmd = exec.Command("open", url)
	}
	cmd.Start()
}

func copyToClipboard(text string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		cmd = exec.Command("xclip", "-selection", "clipboard")
	default:
		return
	}
	cmd.Stdin = strings.NewReader(text)
	cmd.Run()
}
