package web

// indexHTML is the single-page chat interface.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <title>FlightAI</title>
    <meta charset="utf-8">
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            margin: 0;
            background: #0f1419;
            color: #e6e6e6;
            display: flex;
            height: 100vh;
        }
        .chat { flex: 1; display: flex; flex-direction: column; padding: 20px; }
        .scene { width: 40%; padding: 20px; border-left: 1px solid #2a3139; }
        h1 { font-size: 20px; margin: 0 0 16px; }
        #messages { flex: 1; overflow-y: auto; }
        .msg { margin: 8px 0; padding: 10px 14px; border-radius: 10px; max-width: 80%; }
        .msg.user { background: #1d4ed8; margin-left: auto; }
        .msg.assistant { background: #1f2937; }
        form { display: flex; gap: 8px; margin-top: 12px; }
        input {
            flex: 1; padding: 10px 14px; border-radius: 10px;
            border: 1px solid #2a3139; background: #161b22; color: #e6e6e6;
        }
        button {
            padding: 10px 18px; border-radius: 10px; border: none;
            background: #1d4ed8; color: white; cursor: pointer;
        }
        button.secondary { background: #374151; }
        #scene-img { width: 100%; border-radius: 10px; margin-top: 12px; }
    </style>
</head>
<body>
    <div class="chat">
        <h1>FlightAI ✈️</h1>
        <div id="messages"></div>
        <form id="chat-form">
            <input id="input" placeholder="Ask about flights..." autocomplete="off">
            <button type="submit">Send</button>
            <button type="button" class="secondary" id="clear">Clear</button>
        </form>
    </div>
    <div class="scene">
        <h1>Destination</h1>
        <img id="scene-img" style="display:none">
    </div>
    <script>
        const messages = document.getElementById('messages');
        const input = document.getElementById('input');
        const sceneImg = document.getElementById('scene-img');

        function addMessage(role, text) {
            const div = document.createElement('div');
            div.className = 'msg ' + role;
            div.textContent = text;
            messages.appendChild(div);
            messages.scrollTop = messages.scrollHeight;
        }

        document.getElementById('chat-form').addEventListener('submit', async (e) => {
            e.preventDefault();
            const text = input.value.trim();
            if (!text) return;
            addMessage('user', text);
            input.value = '';

            const res = await fetch('/api/chat', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({message: text})
            });
            const data = await res.json();
            if (data.error) {
                addMessage('assistant', data.error);
                return;
            }
            addMessage('assistant', data.reply);
            if (data.image) {
                sceneImg.src = 'data:image/png;base64,' + data.image;
                sceneImg.style.display = 'block';
            }
        });

        document.getElementById('clear').addEventListener('click', async () => {
            await fetch('/api/clear', {method: 'POST'});
            messages.innerHTML = '';
            sceneImg.style.display = 'none';
        });
    </script>
</body>
</html>
`
