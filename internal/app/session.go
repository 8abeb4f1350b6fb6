package app

import "net/http"

type sessionKey string

const (
	SessionKeyActorId = sessionKey("actorID")
	SessionKeyGuest   = sessionKey("guest")
)

func (s sessionKey) String() string {
	return string(s)
}

func (app *Application) contextGetActorId(r *http.Request) int {
	actorId, ok := r.Context().Value(SessionKeyActorId).(int)
	if !ok {
		panic("missing actor id from context")
	}

	return actorId
}
