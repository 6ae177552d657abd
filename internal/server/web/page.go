package web

const pageHTML = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>CheckPoint</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;background:#1a1b26;color:#c0caf5;line-height:1.6}

/* Header */
.hdr{background:#7d56f4;color:#fff;padding:14px 20px;display:flex;align-items:center;justify-content:space-between;position:sticky;top:0;z-index:100}
.hdr h1{font-size:18px;font-weight:600}
.hdr-right{display:flex;align-items:center;font-size:13px;gap:6px}
.hdr-dot{width:10px;height:10px;border-radius:50%;display:inline-block;margin-left:8px}
.dot-green{background:#00c853}.dot-red{background:#ff1744}.dot-yellow{background:#ffd600}
.sub{color:#00e5ff;font-style:italic;max-width:900px;margin:16px auto 0;padding:0 20px}

/* Content */
.content{max-width:900px;margin:0 auto;padding:20px}
.card{background:#24283b;border:2px solid #7d56f4;border-radius:8px;padding:20px;margin-bottom:16px}
.card h2{font-size:16px;margin-bottom:12px;padding-bottom:8px;border-bottom:1px solid #414868;display:flex;justify-content:space-between;align-items:center}
.muted{color:#565f89}
.mono{font-family:'SF Mono','Cascadia Code','Courier New',monospace}

/* Buttons */
.btn{display:inline-flex;align-items:center;gap:6px;padding:8px 16px;border-radius:6px;border:none;cursor:pointer;font-size:14px;font-weight:500;transition:all .2s;line-height:1.4;text-decoration:none}
.btn:disabled{opacity:.5;cursor:not-allowed}
.btn-primary{background:#7d56f4;color:#fff}.btn-primary:hover:not(:disabled){background:#6a45e0}
.btn-danger{background:transparent;color:#ff1744;border:1px solid #ff1744}.btn-danger:hover:not(:disabled){background:#2d1b24}
.btn-sm{padding:5px 10px;font-size:12px}

/* Forms */
.form-row{display:flex;gap:8px;margin-bottom:10px}
.form-row input{flex:1;padding:8px 12px;border:1px solid #414868;border-radius:6px;font-size:14px;background:#1a1b26;color:#c0caf5}
.form-row input:focus{outline:none;border-color:#00e5ff}

/* Lists */
.users{list-style:none}
.users li{display:flex;justify-content:space-between;align-items:center;padding:8px 0;border-bottom:1px solid #2f3549}
.users li:last-child{border:none}
table{width:100%;border-collapse:collapse;font-size:13px}
th{text-align:left;color:#00e5ff;font-weight:600;padding:8px 6px;border-bottom:1px solid #414868}
td{padding:8px 6px;border-bottom:1px solid #2f3549}
tbody tr:nth-child(even){background:#1f2335}

.error-box{background:#2d1b24;border:1px solid #ff1744;border-radius:6px;padding:12px;color:#ff8a9a;font-size:13px}

/* Toast */
.toast{position:fixed;top:60px;right:20px;padding:12px 20px;border-radius:6px;color:#fff;font-size:14px;z-index:200;box-shadow:0 4px 12px rgba(0,0,0,.3)}
.toast-success{background:#00c853}.toast-error{background:#ff1744}
</style>
</head>
<body>

<div class="hdr">
 <h1>CHECKPOINT — Smart Attendance System</h1>
 <div class="hdr-right">
  <span id="hdr-status">Connecting...</span>
  <span id="hdr-dot" class="hdr-dot dot-yellow"></span>
 </div>
</div>
<p class="sub">Track and manage check-ins &amp; check-outs in real time using RFID.</p>

<div class="content">
 <div class="card">
  <h2>Add New User</h2>
  <form id="register-form" class="form-row" hidden>
   {{template "input" .Name}}
   {{template "button" .Register}}
  </form>
  <div id="pending"></div>
 </div>

 <div class="card">
  <h2>Registered Users</h2>
  <div id="users"></div>
 </div>

 <div class="card">
  <h2>Attendance Log <a class="btn btn-primary btn-sm" href="/export/attendance-report.pdf">Export PDF</a></h2>
  <div id="attendance"></div>
 </div>

 <div id="failure"></div>
</div>

<script>
const $ = id => document.getElementById(id);
const fragments = ['pending', 'users', 'attendance', 'failure'];
let ws;

function status(text, dot) {
  $('hdr-status').textContent = text;
  $('hdr-dot').className = 'hdr-dot ' + dot;
}

function toast(msg, cls) {
  const t = document.createElement('div');
  t.className = 'toast ' + cls;
  t.textContent = msg;
  document.body.appendChild(t);
  setTimeout(() => t.remove(), 3000);
}

function connect() {
  const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
  ws = new WebSocket(proto + location.host + '/ws');
  ws.onopen = () => status('Live', 'dot-green');
  ws.onclose = () => {
    status('Disconnected', 'dot-red');
    setTimeout(connect, 2000);
  };
  // Several packets may share one frame, one per line.
  ws.onmessage = e => e.data.split('\n').forEach(line => handle(JSON.parse(line)));
}

function handle(p) {
  switch (p.type) {
  case 'state':
    fragments.forEach(k => { $(k).innerHTML = p.payload[k]; });
    syncForm();
    break;
  case 'system':
    if (p.payload === 'User registered') {
      $('name').value = '';
      syncForm();
    }
    toast(p.payload, 'toast-success');
    break;
  case 'error':
    toast(p.payload, 'toast-error');
    break;
  }
}

function syncForm() {
  const card = document.querySelector('#pending [data-uid]');
  const loading = !!card && card.hasAttribute('data-loading');
  $('register-form').hidden = !card;
  $('register-btn').disabled = !card || loading || $('name').value.trim() === '';
  $('register-btn').textContent = loading ? 'Registering...' : 'Register';
}

function send(type, payload) {
  if (ws && ws.readyState === WebSocket.OPEN) {
    ws.send(JSON.stringify({type, payload}));
  }
}

$('name').addEventListener('input', syncForm);
$('register-form').addEventListener('submit', e => {
  e.preventDefault();
  send('register', {name: $('name').value});
});
$('users').addEventListener('click', e => {
  const b = e.target.closest('[data-delete]');
  if (b) {
    b.disabled = true;
    send('delete', {uid: b.dataset.delete});
  }
});

connect();
</script>
</body>
</html>
{{end}}`
