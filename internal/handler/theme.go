package handler

import "net/http"

const themeCookieName = "theme"

// pageFor resolves the UI theme for a request. Without a theme cookie it
// falls back to the browser's color-scheme preference hint and sets the
// cookie so subsequent visits stay consistent.
func (h *Handler) pageFor(w http.ResponseWriter, r *http.Request) page {
	theme := ""
	if c, err := r.Cookie(themeCookieName); err == nil {
		theme = c.Value
	}
	if theme != "light" && theme != "dark" {
		theme = "light"
		if r.Header.Get("Sec-CH-Prefers-Color-Scheme") == "dark" {
			theme = "dark"
		}
		http.SetCookie(w, &http.Cookie{
			Name:     themeCookieName,
			Value:    theme,
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return page{Ctx: r.Context(), Theme: theme}
}
