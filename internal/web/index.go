package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Locus</title>
    <style>
        :root {
            --bg-primary: #f5f5f5;
            --bg-secondary: white;
            --text-primary: #333;
            --text-muted: #7f8c8d;
            --accent-color: #3498db;
        }

        @media (prefers-color-scheme: dark) {
            :root {
                --bg-primary: #1a1a1a;
                --bg-secondary: #2d2d2d;
                --text-primary: #e0e0e0;
                --text-muted: #a0a0a0;
                --accent-color: #5dade2;
            }
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            padding: 20px;
        }

        .card {
            background: var(--bg-secondary);
            border-radius: 8px;
            padding: 24px;
            max-width: 640px;
        }

        .class { color: var(--accent-color); font-weight: 600; }
        .title { font-size: 1.4rem; margin-top: 8px; }
        .muted { color: var(--text-muted); margin-top: 16px; }
        button { margin-right: 8px; }
    </style>
</head>
<body>
    <div class="card">
        <div class="class" id="class">-</div>
        <div class="title" id="title">Waiting for the first window change...</div>
        <div class="muted">
            <button onclick="fetch('/api/stream/start', {method: 'POST'})">Start</button>
            <button onclick="fetch('/api/stream/stop', {method: 'POST'})">Stop</button>
        </div>
    </div>
    <script>
        const source = new EventSource('/api/stream/events');
        source.addEventListener('active-window-title', (e) => {
            const info = JSON.parse(e.data);
            document.getElementById('class').textContent = info.class;
            document.getElementById('title').textContent = info.title;
        });
    </script>
</body>
</html>`
