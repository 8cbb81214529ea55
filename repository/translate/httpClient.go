package translaterepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"libloan/util/httpx"
)

type httpRepo struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTP(url, apiKey string) Repo {
	return &httpRepo{url: url, apiKey: apiKey, client: httpx.Client()}
}

func (r *httpRepo) Translate(ctx context.Context, req TranslateReq) (string, error) {
	if r.url == "" {
		return "", errors.New("translate: no endpoint configured")
	}

	body := map[string]any{
		"text": req.Text,
		"to":   req.ToLanguage,
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("translate failed: %s", resp.Status)
	}

	var out struct {
		Translation string `json:"translation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Translation == "" {
		return "", errors.New("translate: empty translation")
	}
	return out.Translation, nil
}
