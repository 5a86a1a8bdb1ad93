package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/usecase/suggest"
)

type stateResponse struct {
	suggest.View
	SavedHandles []string        `json:"savedHandles"`
	Namespace    model.Namespace `json:"namespace"`
	User         *model.User     `json:"user"`
}

func (s *Server) state() stateResponse {
	saved := s.favorites.List()
	handles := make([]string, len(saved))
	for i, idea := range saved {
		handles[i] = idea.Handle
	}
	return stateResponse{
		View:         s.suggest.View(),
		SavedHandles: handles,
		Namespace:    s.favorites.Namespace(),
		User:         s.session.Current(),
	}
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// generate runs one round. A failed round is not an API error: the state
// carries it.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "request body must be JSON")
		return
	}

	if err := s.suggest.Submit(r.Context(), req.Prompt); err != nil {
		if errors.Is(err, model.ErrEmptyPrompt) || errors.Is(err, model.ErrStaleRound) {
			handleError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.suggest.Reset()
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) showSaved(w http.ResponseWriter, r *http.Request) {
	s.suggest.ShowSaved()
	writeJSON(w, http.StatusOK, s.state())
}

func handleParam(r *http.Request) string {
	raw := chi.URLParam(r, "handle")
	if h, err := url.PathUnescape(raw); err == nil {
		return h
	}
	return raw
}

type cardResponse struct {
	suggest.CardView
	AvatarDataURI *string `json:"avatarDataUri"`
}

func toCardResponse(v suggest.CardView) cardResponse {
	resp := cardResponse{CardView: v}
	if v.Avatar != nil {
		uri := v.Avatar.DataURI()
		resp.AvatarDataURI = &uri
	}
	return resp
}

func (s *Server) getCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toCardResponse(s.suggest.Card(handleParam(r))))
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.suggest.Analyze(r.Context(), handleParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type avatarRequest struct {
	Vibe     string `json:"vibe"`
	Category string `json:"category"`
}

type avatarResponse struct {
	DataURI *string `json:"dataUri"`
}

// lookupIdea finds handle in the current results, then in favorites.
func (s *Server) lookupIdea(handle string) (*model.IdentityIdea, error) {
	idea, err := s.suggest.Idea(handle)
	if err == nil {
		return idea, nil
	}
	for _, saved := range s.favorites.List() {
		if saved.Handle == handle {
			return saved, nil
		}
	}
	return nil, err
}

// avatar takes vibe and category from the body when given, otherwise from
// the idea shown for the handle.
func (s *Server) avatar(w http.ResponseWriter, r *http.Request) {
	handle := handleParam(r)

	var req avatarRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "request body must be JSON")
			return
		}
	}

	idea := &model.IdentityIdea{Handle: handle, Vibe: req.Vibe, Category: req.Category}
	if req.Vibe == "" && req.Category == "" {
		found, err := s.lookupIdea(handle)
		if err != nil {
			handleError(w, r, err)
			return
		}
		idea = found
	}

	avatar, err := s.suggest.Avatar(r.Context(), idea)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var resp avatarResponse
	if avatar != nil {
		uri := avatar.DataURI()
		resp.DataURI = &uri
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) retryAvatar(w http.ResponseWriter, r *http.Request) {
	reset := s.suggest.RetryAvatar(handleParam(r))
	writeJSON(w, http.StatusOK, map[string]bool{"reset": reset})
}

type favoritesResponse struct {
	Namespace model.Namespace       `json:"namespace"`
	Count     int                   `json:"count"`
	Ideas     []*model.IdentityIdea `json:"ideas"`
}

func (s *Server) listFavorites(w http.ResponseWriter, r *http.Request) {
	ideas := s.favorites.List()
	writeJSON(w, http.StatusOK, favoritesResponse{
		Namespace: s.favorites.Namespace(),
		Count:     len(ideas),
		Ideas:     ideas,
	})
}

type toggleResponse struct {
	Saved     bool `json:"saved"`
	Persisted bool `json:"persisted"`
}

// toggleFavorite reports a failed write through persisted=false; the
// toggle itself still took effect.
func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	var idea model.IdentityIdea
	if err := decodeBody(r, &idea); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "request body must be JSON")
		return
	}

	saved, err := s.favorites.Toggle(r.Context(), &idea)
	if err != nil && errors.Is(err, model.ErrInvalidIdea) {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Saved: saved, Persisted: err == nil})
}

type sessionResponse struct {
	User      *model.User     `json:"user"`
	Namespace model.Namespace `json:"namespace"`
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse{
		User:      s.session.Current(),
		Namespace: s.session.Namespace(),
	})
}

type signInRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "request body must be JSON")
		return
	}

	user, err := s.session.SignIn(r.Context(), req.Email, req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: user, Namespace: s.session.Namespace()})
}

func (s *Server) signOut(w http.ResponseWriter, r *http.Request) {
	s.session.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
