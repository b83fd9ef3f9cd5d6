package handler

import (
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"github.com/ZocoMacc/PaperDuel/src/model"
)

// authenticator is the trivial identity check behind /login.
type authenticator interface {
	Authenticate(username, password string) (*model.User, bool)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler validates a username/password pair and returns the user
// profile. There are no sessions or tokens; callers just carry the
// returned user id into battle requests.
func LoginHandler(store authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid login payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if payload.Username == "" || payload.Password == "" {
			http.Error(w, "Username and password are required", http.StatusBadRequest)
			return
		}

		user, ok := store.Authenticate(payload.Username, payload.Password)
		if !ok {
			logger.WithField("username", payload.Username).Warn("login rejected")
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		writeJSON(w, user)
	}
}
