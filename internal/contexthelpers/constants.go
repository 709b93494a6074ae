package contexthelpers

type contextKey string

const playerIDContextKey = contextKey("playerID")
const csrfTokenContextKey = contextKey("csrfToken")
