package middleware

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/api/session"
)

// RequireLogin rejects requests without an authenticated session
func RequireLogin(next httprouter.Handle, sessions *session.Manager, logger *logrus.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if _, ok := sessions.UserID(r); !ok {
			logger.WithField("path", r.URL.Path).Debug("Unauthenticated request")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"Status":"Error. Login required"}`))
			return
		}
		next(w, r, ps)
	}
}

// RequireOwner rejects requests whose :id path parameter does not match the
// authenticated session user.
func RequireOwner(next httprouter.Handle, sessions *session.Manager, logger *logrus.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		userID, ok := sessions.UserID(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"Status":"Error. Login required"}`))
			return
		}

		pathID, err := strconv.ParseUint(ps.ByName("id"), 10, 32)
		if err != nil || uint(pathID) != userID {
			logger.WithFields(logrus.Fields{
				"session_user": userID,
				"path_user":    ps.ByName("id"),
			}).Warn("Path user does not match session user")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"Status":"Error. Forbidden"}`))
			return
		}
		next(w, r, ps)
	}
}
