package signin

import (
	"net/http"

	"github.com/hastilong/storefront/api/middleware"
	"github.com/hastilong/storefront/api/responses"
	"github.com/hastilong/storefront/api/validators"
	"github.com/hastilong/storefront/internal/session"
	"github.com/hastilong/storefront/pkg/enums"
	"github.com/hastilong/storefront/pkg/logger"
)

// sessionHandler runs fn against the request session and writes its result
// along with the notifications it raised.
func sessionHandler(logg *logger.Logger, fn func(w http.ResponseWriter, r *http.Request, sess *session.Session) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middleware.RequestSession(w, r, logg)
		if !ok {
			return
		}
		data, err := fn(w, r, sess)
		if err != nil {
			responses.WriteSessionError(r.Context(), logg, w, err, sess.Feed.Drain())
			return
		}
		responses.WriteSessionSuccess(w, http.StatusOK, data, sess.Feed.Drain())
	}
}

func SignInView(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, _ *http.Request, sess *session.Session) (any, error) {
		return sess.SignIn.View(), nil
	})
}

func SignInToggleMode(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, _ *http.Request, sess *session.Session) (any, error) {
		return sess.SignIn.ToggleMode(), nil
	})
}

func SignInChooseMobile(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, _ *http.Request, sess *session.Session) (any, error) {
		return sess.SignIn.ChooseMobile()
	})
}

// SignInBack returns to the choice screen by default, or to mobile entry
// when {"to":"mobile"} is sent from the code screen.
func SignInBack(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, r *http.Request, sess *session.Session) (any, error) {
		var payload backRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			return nil, err
		}
		if payload.To == enums.SignInScreenMobileEntry {
			return sess.SignIn.BackToMobile()
		}
		return sess.SignIn.BackToChoice(), nil
	})
}

func SignInUpdateForm(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, r *http.Request, sess *session.Session) (any, error) {
		var payload formRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		view := sess.SignIn.View()
		var err error
		if payload.Mobile != nil {
			if view, err = sess.SignIn.SetMobile(*payload.Mobile); err != nil {
				return nil, err
			}
		}
		if payload.Name != nil {
			if view, err = sess.SignIn.SetName(*payload.Name); err != nil {
				return nil, err
			}
		}
		return view, nil
	})
}

func SignInSubmit(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, r *http.Request, sess *session.Session) (any, error) {
		return sess.SignIn.Submit(r.Context())
	})
}

func SignInResend(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, r *http.Request, sess *session.Session) (any, error) {
		return sess.SignIn.Resend(r.Context())
	})
}

func SignInDeepLink(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, _ *http.Request, sess *session.Session) (any, error) {
		url, err := sess.SignIn.DeepLink()
		if err != nil {
			return nil, err
		}
		return linkResponse{URL: url}, nil
	})
}

func SignInFinalize(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, r *http.Request, sess *session.Session) (any, error) {
		rec, err := sess.SignIn.Finalize(r.Context())
		if err != nil {
			return nil, err
		}
		return completedResponse{User: rec, View: sess.SignIn.View()}, nil
	})
}

func SignInGoogle(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, r *http.Request, sess *session.Session) (any, error) {
		var payload federatedRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		rec, err := sess.SignIn.SignInFederated(r.Context(), payload.Credential)
		if err != nil {
			return nil, err
		}
		return completedResponse{User: rec, View: sess.SignIn.View()}, nil
	})
}

func SignInReset(logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(logg, func(_ http.ResponseWriter, _ *http.Request, sess *session.Session) (any, error) {
		return sess.SignIn.Reset(), nil
	})
}
