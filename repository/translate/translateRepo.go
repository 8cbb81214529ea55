package translaterepo

import "context"

type TranslateReq struct {
	Text       string
	ToLanguage string
}

// Repo is the external machine-translation collaborator. Callers treat it
// as opaque: it may fail or time out, and they decide what that means.
type Repo interface {
	Translate(ctx context.Context, req TranslateReq) (string, error)
}
