package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Aveum Dashboard</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  :root {
    --bg: #0c0a09; --surface: #1c1917; --surface-hover: #292524;
    --border: rgba(249,115,22,0.12); --border-strong: rgba(249,115,22,0.25);
    --text: #fafaf9; --text-dim: #a8a29e; --text-muted: #57534e;
    --orange: #f97316; --orange-light: #fb923c; --orange-dim: rgba(249,115,22,0.15);
    --green: #22c55e; --red: #ef4444; --blue: #3b82f6;
  }
  body {
    font-family: -apple-system, 'SF Pro Display', 'Segoe UI', system-ui, sans-serif;
    background: var(--bg); color: var(--text);
    min-height: 100vh; padding: 40px 24px;
  }
  .container { max-width: 880px; margin: 0 auto; }
  .header {
    display: flex; align-items: center; gap: 16px;
    margin-bottom: 32px; padding-bottom: 24px;
    border-bottom: 1px solid var(--border);
  }
  .header h1 {
    font-size: 26px; font-weight: 800; letter-spacing: -0.5px;
    background: linear-gradient(135deg, var(--orange-light) 0%, var(--orange) 100%);
    -webkit-background-clip: text; -webkit-text-fill-color: transparent;
  }
  .header .spacer { flex: 1; }
  .conn { font-size: 12px; font-weight: 600; color: var(--text-muted); }
  .conn.live { color: var(--green); }
  .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(260px, 1fr)); gap: 16px; margin-bottom: 24px; }
  .card {
    background: var(--surface); border: 1px solid var(--border);
    border-radius: 14px; padding: 20px;
  }
  .card h2 {
    font-size: 11px; font-weight: 700; color: var(--text-muted);
    text-transform: uppercase; letter-spacing: 1px; margin-bottom: 14px;
  }
  .row { display: flex; justify-content: space-between; padding: 6px 0; font-size: 13px; }
  .row .label { color: var(--text-dim); }
  .row span:last-child { font-family: 'SF Mono', 'Menlo', monospace; }
  .badge { font-size: 11px; font-weight: 600; padding: 3px 10px; border-radius: 20px; }
  .bg-success { color: var(--green); background: rgba(34,197,94,0.1); }
  .bg-danger { color: var(--red); background: rgba(239,68,68,0.1); }
  .bg-info { color: var(--blue); background: rgba(59,130,246,0.1); }
  .actions { display: flex; flex-wrap: wrap; gap: 10px; margin-bottom: 24px; }
  .btn {
    font: inherit; font-size: 13px; font-weight: 600; cursor: pointer;
    color: var(--orange); background: var(--orange-dim);
    border: 1px solid var(--border-strong); border-radius: 10px; padding: 8px 16px;
  }
  .btn:hover { background: var(--surface-hover); }
  .btn:disabled { opacity: 0.4; cursor: not-allowed; }
  pre {
    background: var(--surface); border: 1px solid var(--border); border-radius: 14px;
    padding: 16px; max-height: 280px; overflow-y: auto;
    font-family: 'SF Mono', 'Menlo', monospace; font-size: 12px; color: var(--text-dim);
    white-space: pre-wrap;
  }
  .alert {
    display: flex; justify-content: space-between; align-items: center;
    border-radius: 10px; padding: 12px 16px; margin-bottom: 16px; font-size: 13px;
  }
  .alert-danger { color: var(--red); background: rgba(239,68,68,0.1); border: 1px solid rgba(239,68,68,0.25); }
  .alert-success { color: var(--green); background: rgba(34,197,94,0.1); border: 1px solid rgba(34,197,94,0.25); }
  .alert-info { color: var(--blue); background: rgba(59,130,246,0.1); border: 1px solid rgba(59,130,246,0.25); }
  .toast-container { position: fixed; right: 16px; bottom: 16px; display: flex; flex-direction: column; gap: 8px; }
  .toast {
    display: flex; justify-content: space-between; align-items: center; gap: 12px;
    min-width: 260px; border-radius: 10px; padding: 12px 16px; font-size: 13px; color: #fff;
  }
  .toast.bg-success { background: #15803d; }
  .toast.bg-danger { background: #b91c1c; }
  .toast.bg-info { background: #1d4ed8; }
  .btn-close { background: none; border: none; color: inherit; cursor: pointer; font-size: 16px; }
  .btn-close::after { content: '\00d7'; }
</style>
</head>
<body>
<div class="container" id="container">
  <div class="header">
    <h1>Aveum Dashboard</h1>
    <div class="spacer"></div>
    <div class="conn" id="conn">Connecting...</div>
  </div>

  <div class="grid">
    <div class="card">
      <h2>Account</h2>
      <div class="row"><span class="label">Email</span><span id="aveum-email"></span></div>
      <div class="row"><span class="label">Login</span><span id="login-status" class="badge"></span></div>
      <div class="row"><span class="label">Device ID</span><span id="device-id"></span></div>
      <div class="row"><span class="label">Device Model</span><span id="device-model"></span></div>
      <div class="row"><span class="label">Platform</span><span id="platform-version"></span></div>
      <div class="row"><span class="label">Ban Status</span><span id="ban-status" class="badge"></span></div>
      <div class="row"><span class="label">Last Ban Check</span><span id="last-ban-check"></span></div>
    </div>
    <div class="card">
      <h2>Mining</h2>
      <div class="row"><span class="label">Mode</span><span id="current-mode" class="badge"></span></div>
      <div class="row"><span class="label">Status</span><span id="mining-status" class="badge"></span></div>
      <div class="row"><span class="label">Balance</span><span id="current-balance"></span></div>
      <div class="row"><span class="label">Total Rewards</span><span id="total-rewards"></span></div>
      <div class="row"><span class="label">Sessions</span><span id="mining-sessions"></span></div>
      <div class="row"><span class="label">Errors</span><span id="mining-errors"></span></div>
    </div>
    <div class="card">
      <h2>Auto-Like</h2>
      <div class="row"><span class="label">Status</span><span id="auto-like-status" class="badge"></span></div>
      <div class="row"><span class="label">Total Likes</span><span id="total-likes"></span></div>
      <div class="row"><span class="label">Today</span><span id="daily-likes"></span></div>
      <div class="row"><span class="label">Errors</span><span id="like-errors"></span></div>
    </div>
  </div>

  <div class="actions">
    <button class="btn" id="refresh-token"></button>
    <button class="btn" id="switch-mode"></button>
    <button class="btn" id="start-mining"></button>
    <button class="btn" id="stop-mining"></button>
    <button class="btn" id="toggle-auto-like"></button>
    <button class="btn" id="check-ban"></button>
    <button class="btn" id="refresh-stats" data-local="1">Refresh Stats</button>
  </div>

  <pre id="activity-log"></pre>
</div>

<script>
const $ = id => id === 'body' ? document.body : document.getElementById(id);

function setText(node, text) {
  // Keep child elements (close buttons); only the leading text changes.
  if (node.children.length === 0) { node.textContent = text; return; }
  const first = node.firstChild;
  if (first && first.nodeType === Node.TEXT_NODE) first.nodeValue = text;
  else node.insertBefore(document.createTextNode(text), first);
}

function apply(el, index) {
  let node = $(el.id);
  if (!node) {
    const parent = $(el.parent);
    if (!parent) return;
    node = document.createElement(el.tag || 'div');
    node.id = el.id;
    const before = index != null ? parent.children[index] : null;
    parent.insertBefore(node, before || null);
  }
  setText(node, el.text || '');
  if (el.class) node.className = el.class;
  if ('disabled' in node) node.disabled = !!el.disabled;
  for (const [k, v] of Object.entries(el.attrs || {})) node.setAttribute(k, v);
  if (el.scroll_to_end) node.scrollTop = node.scrollHeight;
}

function remove(el) {
  const node = $(el.id);
  if (node && node !== document.body) node.remove();
}

function reset(elements) {
  // Drop dynamic nodes the server no longer has, then apply everything.
  const known = new Set(elements.map(e => e.id));
  document.querySelectorAll('.toast, .alert').forEach(n => { if (!known.has(n.id)) n.remove(); });
  for (const el of elements) apply(el);
}

let ws;
function connect() {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  ws = new WebSocket(proto + '//' + location.host + '/ws');
  ws.onopen = () => { $('conn').textContent = 'Live'; $('conn').className = 'conn live'; };
  ws.onclose = () => {
    $('conn').textContent = 'Reconnecting...'; $('conn').className = 'conn';
    setTimeout(connect, 2000);
  };
  ws.onmessage = ev => {
    const msg = JSON.parse(ev.data);
    if (msg.type === 'reset') reset(msg.elements || []);
    else if (msg.type === 'change') {
      const c = msg.change;
      if (c.kind === 'remove') remove(c.element);
      else apply(c.element, c.kind === 'insert' ? c.index : null);
    }
  };
}

document.addEventListener('click', ev => {
  const target = ev.target.closest('button[id]');
  if (!target || target.disabled) return;
  if (target.dataset.local) {
    fetch('/page/stats', { method: 'POST' });
    return;
  }
  fetch('/page/click/' + encodeURIComponent(target.id), { method: 'POST' });
});

connect();
</script>
</body>
</html>`

func (s *Server) handleDashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(dashboardHTML))
}
