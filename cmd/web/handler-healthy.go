package main

import "net/http"

// healthy responds with a JSON object indicating that the server is healthy and the database answers.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	if err := app.database.ReadOnly.PingContext(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
