package web

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

func Home(games []GameSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Meme Royale</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Meme Royale</span>
        <h1>Caption fast. Rate honestly.</h1>
        <p>Open a lobby and share the eight-letter code, or join one with a code.</p>
      </header>

      <section class="panel">
        <div>
          <h2>Create a game</h2>
          <p>You become the admin and decide when the rounds start.</p>
        </div>
        <form id="createForm" class="join-form">
          <input name="name" placeholder="Display name" autocomplete="name" required/>
          <input name="password" placeholder="Password (optional)" autocomplete="off"/>
          <button type="submit" class="primary">Create game</button>
        </form>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <div>
          <h2>Join a game</h2>
          <p>Enter the game code from the admin and your display name.</p>
        </div>
        <form id="joinForm" class="join-form">
          <input name="code" placeholder="Game code" autocomplete="off" required/>
          <input name="name" placeholder="Display name" autocomplete="name" required/>
          <input name="password" placeholder="Password (if set)" autocomplete="off"/>
          <button type="submit" class="secondary">Join game</button>
        </form>
        <div id="joinResult" class="result"></div>
      </section>

      <section class="panel">
        <h2>Running games</h2>
        <ul class="games">
`); err != nil {
			return err
		}
		for _, game := range games {
			row := fmt.Sprintf("          <li><code>%s</code> — %s, %d players</li>\n",
				html.EscapeString(game.Code), html.EscapeString(game.State), game.Players)
			if _, err := io.WriteString(w, row); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `        </ul>
      </section>
    </main>

    <script>
      const createForm = document.getElementById("createForm");
      const createResult = document.getElementById("createResult");
      const joinForm = document.getElementById("joinForm");
      const joinResult = document.getElementById("joinResult");

      createForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        createResult.textContent = "Creating game...";
        const data = Object.fromEntries(new FormData(createForm));
        const res = await fetch("/api/games", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify(data),
        });
        const body = await res.json();
        createResult.textContent = res.ok
          ? "Game code: " + body.code
          : body.error || "Could not create the game.";
      });

      joinForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        joinResult.textContent = "Joining...";
        const data = Object.fromEntries(new FormData(joinForm));
        const res = await fetch("/api/games/" + data.code.toUpperCase() + "/join", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ name: data.name, password: data.password }),
        });
        const body = await res.json();
        joinResult.textContent = res.ok
          ? "Joined as " + body.player
          : body.error || "Could not join the game.";
      });
    </script>
  </body>
</html>
`)
		return err
	})
}
