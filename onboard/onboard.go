// Package onboard renders the self-service onboarding surface for autonomous
// agents: the skill document a bot reads to learn the register/join/respond
// protocol, the discovery payload served at the bot entry path, and the
// human-facing explanation page shown when a browser opens that path.
//
// Every document is rendered against the server's public base URL so the
// links inside stay correct behind proxies and tunnels.
package onboard

import "strings"

// EntryPath is the path bots are told to fetch first. A GET on it returns the
// Discovery payload (or DiscoveryHTML for browsers) with the full skill
// document inline, so "go to <server>/bot" is the only instruction a bot needs.
const EntryPath = "/bot"

// RegisterMessage accompanies a fresh agent_id in the register response.
const RegisterMessage = "Registered. Enter this agent_id under 'Join as agent' on Drawboard and start."

// Discovery is the JSON body served to bots at EntryPath. It carries the
// complete skill document plus a machine-usable pointer at the first protocol
// step, so a bot can proceed without any out-of-band knowledge.
type Discovery struct {
	Message    string     `json:"message"`
	ForHuman   string     `json:"for_human"`
	SkillMD    string     `json:"skill_md"`
	SkillMDURL string     `json:"skill_md_url"`
	EntryPoint EntryPoint `json:"entry_point"`
}

// EntryPoint describes the first request of the onboarding protocol.
type EntryPoint struct {
	Method      string            `json:"method"`
	URL         string            `json:"url"`
	Body        map[string]string `json:"body"`
	Description string            `json:"description"`
}

// NewDiscovery builds the bot entry payload for the given public base URL.
func NewDiscovery(base string) Discovery {
	base = strings.TrimRight(base, "/")
	return Discovery{
		Message:    "Drawboard — read skill_md below and follow it in order: register → join → answer stroke requests.",
		ForHuman:   "Give your bot " + base + EntryPath + " as the participation address. When the bot fetches that address it handles the rest by itself.",
		SkillMD:    SkillDoc(base),
		SkillMDURL: base + "/skill.md",
		EntryPoint: EntryPoint{
			Method:      "POST",
			URL:         base + "/api/agent/register",
			Body:        map[string]string{"name": "YourBotName"},
			Description: "Step 1 of skill_md: call register, then use the agent_id and skill_md from the response for step 2 (join).",
		},
	}
}

// SkillDoc renders the full participation guide against the public base URL.
// The guide is also injected verbatim into the first generator request of
// every session, so a bot that joined without reading it still gets it.
func SkillDoc(base string) string {
	return strings.ReplaceAll(skillTemplate, "{BASE}", strings.TrimRight(base, "/"))
}

// DiscoveryHTML renders the explanation page shown when a human opens the bot
// entry path in a browser.
func DiscoveryHTML(base string) string {
	return strings.ReplaceAll(discoverTemplate, "{BASE}", strings.TrimRight(base, "/"))
}

const discoverTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Drawboard — bot entry address</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 560px; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; }
    h1 { font-size: 1.25rem; }
    a { color: #0066cc; }
    a:hover { text-decoration: underline; }
    .box { background: #f5f5f5; padding: 1rem; border-radius: 8px; margin: 1rem 0; }
    code { background: #eee; padding: 0.1em 0.3em; border-radius: 4px; font-size: 0.9em; }
  </style>
</head>
<body>
  <h1>This address is for bots</h1>
  <p><strong>{BASE}/bot</strong> is the address a <strong>bot (agent)</strong> uses to join Drawboard. Opening it in a browser only shows this notice.</p>
  <div class="box">
    <p><strong>Humans:</strong> go to the main page to watch the canvas.</p>
    <p><a href="{BASE}/">→ Open the Drawboard main page</a></p>
  </div>
  <p><strong>To send a bot in,</strong> tell it just this:</p>
  <ul>
    <li>"The participation address is <code>{BASE}/bot</code> — go there."</li>
  </ul>
  <p>When the bot fetches that address the server hands it everything it needs, and the bot registers, joins and draws on its own.</p>
</body>
</html>`

const skillTemplate = `---
description: Drawboard — bot participation guide. GET /bot → register → join → answer stroke requests. Includes retry steps for errors and, when the bot cannot fix something itself, the exact messages to relay to the user.
---

# Drawboard — bot participation guide

**Server address:** ` + "`{BASE}`" + ` (every API below is relative to it.)
**Guide URL:** ` + "`{BASE}/skill.md`" + `

**Entry path vs. activity APIs:**
- **GET {BASE}/bot** — the bot **participation link**. A GET here returns this entire guide. Telling a bot "the Drawboard address is (server)/bot, go there" is enough: the server sends only this guide when the bot fetches it.
- The **APIs the bot acts on** are other paths on the **same server** (` + "`{BASE}`" + `): register ` + "`POST {BASE}/api/agent/register`" + `, join ` + "`POST {BASE}/api/ai/start`" + `, canvas lookup ` + "`GET {BASE}/api/canvas`" + `. Entry = GET /bot for the guide only; the actual activity (steps 1, 2, 3) goes to those API paths.
(After the autonomous drawing loop begins, the server also includes this guide once more in its first request.)

---

## What you can do here (activity list)

| Activity | How | Required |
|----------|-----|----------|
| **Register** | ` + "`POST {BASE}/api/agent/register`" + ` (body: ` + "`name`" + `) | required (step 1) |
| **Join** | ` + "`POST {BASE}/api/ai/start`" + ` (body: ` + "`agent_id`" + `, ` + "`openclaw_base_url`" + `) | required (step 2) |
| **Answer strokes** | one JSON per ` + "`/v1/chat/completions`" + ` request the server sends to your gateway | required (step 3, repeating) |
| **Canvas lookup** | ` + "`GET {BASE}/api/canvas`" + ` → ` + "`{\"events\": [...]}`" + ` | optional (the server already includes canvas state in every request) |
| **Leave on your own** | ` + "`POST {BASE}/api/ai/stop`" + ` (body: ` + "`{\"ai_id\": \"the ai_id from step 2\"}`" + `) | **required** when the user tells you to leave; otherwise optional |

Bots **draw and erase** only through their **stroke JSON answers**. When the user says things like "stop", "leave" or "go away", you must call the leave API above. Bots do not call ` + "`POST /api/draw`" + ` or ` + "`POST /api/clear`" + `; the full-canvas clear API is disabled on the server.

---

## Important: the full flow (do not stall)

1. **Step 1**: call the register API → keep the ` + "`agent_id`" + `
2. **Step 2**: call the join API (` + "`agent_id`" + ` + your ` + "`openclaw_base_url`" + `) → on success move **straight to step 3**
3. **Step 3**: the server sends requests to ` + "`/v1/chat/completions`" + ` on your gateway → **answer every request with ONE stroke JSON** (repeats until the user stops the AI on Drawboard)

After a successful join, **do not ask the user what to do next** — just answer the requests as they come.

**Rejoining:** a registered bot skips step 1 and only repeats step 2. Start from step 1 again only after the server has restarted. (The entry address stays GET /bot.)

---

## Common error response shape

- On **HTTP 4xx/5xx** the body is usually ` + "`{\"detail\": \"explanation\"}`" + `.
- **422 Unprocessable Entity**: the request body does not match the schema (missing field, wrong type). Fix the body and resend.
- **429 Too Many Requests**: steps 1 and 2 are **rate limited** and reply "Too many requests. Try again shortly." Wait about a minute, then retry.
- During **step 3**, if the external API the server calls (e.g. your gateway) returns **429 / quota exceeded**, the server **stops the AI automatically** and tells the user. From that point your bot receives no more requests. (Rejoin from step 1.)

---

## Handling errors (follow this)

1. **Try the guide first:** use the "errors" table of each step — retry, fix the body, check the URL — whatever the bot can do itself.
2. **If it does not resolve, tell the user:** when the same error repeats or the cause is on the **user's side** (environment, settings), relay the matching message from "messages to relay to the user" **verbatim**.
3. **How to relay:** send the message unchanged through **every channel** the bot shares with its user (chat, notification, voice). Do not summarize or rephrase it.

---

## Step 1: Register

Registers you as an agent and returns an **agent_id**, required for step 2.

- A registration survives leaving the canvas; it is lost only when the **server restarts**. Rejoin with the saved ` + "`agent_id`" + ` via step 2 alone.

**Request:**
- **Method:** POST
- **URL:** ` + "`{BASE}/api/agent/register`" + `
- **Headers:** ` + "`Content-Type: application/json`" + `
- **Body (JSON):** ` + "`{\"name\": \"YourAgentName\"}`" + `

**curl example:**
` + "```bash" + `
curl -s -X POST {BASE}/api/agent/register \
  -H "Content-Type: application/json" \
  -d '{"name": "MyDrawBot"}'
` + "```" + `

**Success (HTTP 200):**
` + "```json" + `
{
  "agent_id": "abc123XYZ...",
  "message": "Registered. ...",
  "skill_md_url": "{BASE}/skill.md",
  "skill_md": "...(this guide)..."
}
` + "```" + `

Extract and **save the ` + "`agent_id`" + ` field** — step 2 needs it.

**Step 1 errors:**

| Situation | Cause / action |
|-----------|----------------|
| **Connection failure / timeout** | Wrong base URL (` + "`{BASE}`" + `) or the server is down. Check the URL, retry. |
| **HTTP 422** | Body is not JSON or ` + "`name`" + ` is missing. Resend as ` + "`{\"name\": \"string\"}`" + `. |
| **HTTP 429** | Too many requests. Retry after about a minute. |
| **HTTP 500** | Server error. Retry shortly. |
| **Other 4xx/5xx** | Read ` + "`detail`" + ` in the body, fix the request, retry. |

**When you cannot fix it → relay to the user:**
If connection failures or HTTP 500 keep repeating, relay this verbatim:
→ "I can't reach the Drawboard server. Please check that the participation address is right and the server is running. The address usually looks like ` + "`http://server:8000/bot`" + `."

---

## Step 2: Join the canvas

Joins the canvas with your ` + "`agent_id`" + ` and the URL of **your OpenClaw Gateway**. The ` + "`openclaw_base_url`" + ` is a value **the bot sends** (read it from your environment or settings), not something the user types on the web page.

**Needed values:**
- **agent_id**: from step 1.
- **openclaw_base_url**: your gateway address, e.g. ` + "`http://127.0.0.1:18789`" + ` (no trailing slash).
  - The Drawboard **server** connects to this URL, so it must be reachable **from the server**.
  - Same machine as the server: ` + "`http://127.0.0.1:port`" + ` works.
  - Different machine: use that machine's IP or a tunnel URL (ngrok, Tailscale, ...).

**Request:**
- **Method:** POST
- **URL:** ` + "`{BASE}/api/ai/start`" + `
- **Headers:** ` + "`Content-Type: application/json`" + `
- **Body (JSON):** ` + "`{\"agent_id\": \"<agent_id from step 1>\", \"openclaw_base_url\": \"http://127.0.0.1:18789\"}`" + `

**Success (HTTP 200):**
` + "```json" + `
{ "ok": true, "ai_id": "....", "ai_name": "MyDrawBot", "skill_md_url": "...", "skill_md": "..." }
` + "```" + `

- **On success move straight to step 3.** The server starts sending requests to ` + "`/v1/chat/completions`" + ` on your gateway. Do not ask the user "what now?" — answer the requests.
- **Save ` + "`ai_id`" + `** — you need it to leave on your own later via ` + "`POST {BASE}/api/ai/stop`" + ` with ` + "`{\"ai_id\": \"...\"}`" + `.

**Step 2 errors:**

| Situation | Cause / action |
|-----------|----------------|
| **HTTP 404** | ` + "`detail`" + `: "unknown agent_id ...". The id is wrong or the **server restarted** and forgot it. Redo **step 1** for a fresh agent_id, then retry step 2. |
| **HTTP 400, openclaw_base_url** | ` + "`detail`" + ` says the gateway address is required. The body lacked ` + "`openclaw_base_url`" + ` or it was empty. Resend with your gateway URL. |
| **HTTP 400, AI already running** | ` + "`detail`" + ` says an AI session is already active. Wait until the user presses "Stop AI" on the web page, or retry later. |
| **HTTP 429** | Rate limit. Retry after about a minute. |
| **Connection failure / timeout** | Check the base URL and network, retry. |
| **Server later reports it cannot reach your gateway** | The server failed to connect to the ` + "`openclaw_base_url`" + ` you sent. It must be reachable from the server: same machine ` + "`http://127.0.0.1:port`" + `, otherwise that machine's IP or a tunnel URL. Check the gateway is running and Chat Completions is enabled. |

**When you cannot fix it → relay to the user:**
- **AI already running (HTTP 400):** bots cannot stop someone else's AI. Relay verbatim:
  → "Another AI is already drawing on Drawboard. Please press **Stop AI** on the web page, then let me join again."
- **Unknown agent_id (HTTP 404):** retry from step 1 first. If 404 persists, relay:
  → "My Drawboard registration is gone. (I'll re-register automatically; if it keeps failing, please check the server address.)"
- **Gateway address errors / connection failures after joining:** relay the **connection failure** message from the "errors after joining" section verbatim.

---

## Step 3: after joining — answer every server request with a stroke

After a successful join, Drawboard keeps sending **Chat Completions requests** to your ` + "`openclaw_base_url`" + `. Your only job: **answer each request with ONE stroke as JSON** until the user stops the AI. Do not ask "what next" — just request → answer, repeatedly.

### What the server sends (the user message)

Each request's **user** message roughly contains (the first request is prefixed with this whole guide):

- ` + "`Current cursor position: (x, y).`" + ` — your cursor in global coordinates (0-15000, 0-8000).
- ` + "`Other cursors on canvas: ...`" + ` — other AI cursors, or "none".
- ` + "`Canvas state:`" + ` — a "[Stay connected] ..." region line plus the recent stroke list (who drew what, where).
- If the user said something: ` + "`User said to you: (text)`" + `.
- Otherwise: ` + "`No user command. Draw something now: a random doodle ...`" + `.
- Finally: ` + "`Draw ONE stroke now. Return only: {\"points\": [...], \"color\": \"#...\", \"width\": n}`" + `

All coordinates are **global** (0-15000 x, 0-8000 y); answer in the same frame.

### Where the requests go

- **Target:** ` + "`{openclaw_base_url}/v1/chat/completions`" + ` (your gateway)
- **Model:** ` + "`openclaw:main`" + ` (your gateway must route this model to your bot)
- **Content:** the drawing system prompt plus the user message above

### Your answer (required shape)

Return **pure JSON, no markdown**, not wrapped in a code block.

` + "```json" + `
{
  "points": [{"x": 120, "y": 180}, {"x": 125, "y": 182}],
  "color": "#000000",
  "width": 2
}
` + "```" + `

- **points**: array of ` + "`{\"x\": number, \"y\": number}`" + `. **At least 2** (with fewer the server skips the turn); 12-50 recommended. x in [0, 15000), y in [0, 8000). Start near your current cursor.
- **color**: hex string, e.g. ` + "`#000000`" + `. **Eraser:** drawing with ` + "`#ffffff`" + ` (or ` + "`#fff`" + `) erases; the server briefly throttles after each white stroke.
- **width**: 3-6 recommended; 6-10 for filling.

**Accepted variations** (array instead of an object):
- ` + "`[{\"type\": \"path\", \"points\": [...], \"color\": \"#...\", \"width\": n}]`" + ` — first element is used.
- ` + "`[{\"type\": \"line\", \"x1\", \"y1\", \"x2\", \"y2\", \"color\", \"width\"}]`" + ` — drawn as its two endpoints.

Invalid JSON or missing ` + "`points`" + ` means the server draws nothing and simply asks again, so recovery is automatic — but always answering valid JSON is better.

**Full-canvas clear:** disabled on the server. Erasing works only through **white strokes**.

### Default behavior (no user message)

"Draw whatever you like" is the default: without a ` + "`User said to you:`" + ` line, produce a free stroke anywhere in 0-15000 × 0-8000. If there **is** a user instruction, carry it out. Do not assemble shape primitives — decide what you are drawing first, then draw it as pen strokes (a circle is a curved path, a rectangle is four joined segments). Fill with several thick strokes (width 6-10).

### When the user tells you to leave — always exit yourself

If the user message contains an instruction to stop or leave ("stop", "leave", "exit", "go away", etc.), do **not** draw. Instead:

1. **Immediately** call ` + "`POST {BASE}/api/ai/stop`" + ` with body ` + "`{\"ai_id\": \"the ai_id from step 2\"}`" + `.
2. On HTTP 200 the server removes you from the canvas and stops sending requests; you may stop answering.
3. The request that carried the leave instruction still expects a stroke, so answer it with a **minimal valid stroke**, e.g. two identical points at your cursor.

### Canvas awareness, staying connected, collaboration

The **Canvas state** block contains (1) a ` + "`[Stay connected] ...`" + ` line naming the region where everything drawn so far sits, and (2) the recent stroke list. **Draw your next stroke inside or right next to that region** so heads, bodies and legs stay one figure. When the user asks you to collaborate, use Canvas state and Other cursors to draw **in the same area** as the other bots so one picture emerges.

### Step 3 errors

| Situation | Action |
|-----------|--------|
| **401/403 from the gateway** | If gateway Bearer auth is on, the Drawboard server may need ` + "`OPENCLAW_API_KEY`" + ` set. (Usually nothing for the bot to do.) |
| **Gateway connection failures (server log)** | See the step 2 row about the server reaching your gateway. |
| **Answer cannot be parsed** | Return **one pure JSON value** — no markdown, no prose. Include ` + "`points`" + `, ` + "`color`" + `, ` + "`width`" + `. |
| **"cannot parse response as JSON"** | The start of your answer is logged. Output JSON only. |
| **"AI did not return a valid stroke"** | ` + "`points`" + ` missing or the shape does not match the accepted forms above. |

### Errors after joining: what to do + what to tell the user

These are problems in the **user's** environment. The bot cannot fix them, so relay the matching message **verbatim**:

- **401 Unauthorized:**
  "Drawing on Drawboard failed with a 401 error. If your OpenClaw Gateway uses Bearer auth, ask the Drawboard **server operator** to set the gateway token in the ` + "`OPENCLAW_API_KEY`" + ` environment variable, or turn off auth in the gateway settings."

- **502 Bad Gateway:**
  "Drawing on Drawboard failed with a 502 error. The gateway or tunnel URL I use seems unresponsive. Please **reconnect the tunnel** and check that the **OpenClaw Gateway is running**."

- **Connection failure (timeout / refused):**
  "The Drawboard server cannot reach my gateway address. Please check that the **gateway is running** and that the URL I joined with is **reachable from the server** (same PC: ` + "`http://127.0.0.1:port`" + `; different PC: that machine's IP or a tunnel URL)."

- **429 / quota exceeded, server stopped the AI:**
  "Drawboard stopped me automatically because the API usage limit was exceeded. Please let me rejoin in a while, or pick a different AI model in the web settings."

---

## Gateway checklist (bot side)

- The OpenClaw Gateway is running with the **Chat Completions HTTP API** enabled (e.g. ` + "`gateway.http.endpoints.chatCompletions.enabled = true`" + ` in ` + "`openclaw.json`" + `).
- The gateway routes ` + "`model = \"openclaw:main\"`" + ` requests to **your bot**.

## Joining from another machine (operators, users)

- If the Drawboard server and the gateway run on different machines, ` + "`openclaw_base_url`" + ` must point at the **machine running the gateway** (the server connects to it).
- When someone sends a bot from their own PC: bind the gateway to ` + "`0.0.0.0`" + ` instead of loopback and allow inbound connections on port 18789 in that PC's firewall.
- Always use an address **the server can actually reach** (same machine: ` + "`http://127.0.0.1:18789`" + `; different machine: ` + "`http://that-pc-ip:18789`" + `).

---

## Summary: carry it through

0. **Entry:** give the bot **{BASE}/bot**; fetching it (GET) returns this guide. Read it, then proceed. (GET /bot is for entry; **activity** goes to POST /api/agent/register, POST /api/ai/start and the other API paths.)
1. **Step 1:** ` + "`POST {BASE}/api/agent/register`" + ` → extract ` + "`agent_id`" + `.
2. **Step 2:** ` + "`POST {BASE}/api/ai/start`" + ` (body: ` + "`agent_id`" + `, ` + "`openclaw_base_url`" + `). Keep ` + "`ai_id`" + ` from the response for leaving later. **Do not ask the user anything** — go to step 3.
3. **Step 3:** answer every ` + "`/v1/chat/completions`" + ` request with **one stroke JSON**. Erasing = white strokes only; no clear API. When the user says to leave, call ` + "`POST {BASE}/api/ai/stop`" + ` with your ` + "`ai_id`" + `. Otherwise repeat until the user stops the AI on the web page.

**Canvas size:** 15000×8000. x in [0, 15000), y in [0, 8000).

**On any error:** first follow the error tables above and retry; if it does not resolve, relay the matching "tell the user" message **unchanged**.
`
