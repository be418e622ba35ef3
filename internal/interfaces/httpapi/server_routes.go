package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("GET /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("GET /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMatch)))
	mux.Handle("DELETE /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteMatch)))
	mux.Handle("GET /v1/matches/{matchID}/standings", RequireAuth(verifier, http.HandlerFunc(handler.GetStandings)))
	mux.Handle("GET /v1/matches/{matchID}/next-hole", RequireAuth(verifier, http.HandlerFunc(handler.GetNextHole)))
	mux.Handle("POST /v1/matches/{matchID}/finish", RequireAuth(verifier, http.HandlerFunc(handler.FinishMatch)))
}

func registerHoleRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/matches/{matchID}/holes/{holeNumber}", RequireAuth(verifier, http.HandlerFunc(handler.GetHole)))
	mux.Handle("PUT /v1/matches/{matchID}/holes/{holeNumber}/outcome", RequireAuth(verifier, http.HandlerFunc(handler.RecordHoleOutcome)))
	mux.Handle("PUT /v1/matches/{matchID}/players/{playerID}/scorecard/{holeNumber}", RequireAuth(verifier, http.HandlerFunc(handler.SetScorecardResult)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/rebuild-standings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RebuildStandings)))
}
