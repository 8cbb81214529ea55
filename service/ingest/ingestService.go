package ingestsvc

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"libloan/config"
	"libloan/model"
	docrepo "libloan/repository/document"
	"libloan/repository/filestore"
	translaterepo "libloan/repository/translate"
)

// errors used by controllers

type ErrCode string

const (
	ErrUnsupportedType ErrCode = "UNSUPPORTED_TYPE"
	ErrDocNotFound     ErrCode = "DOCUMENT_NOT_FOUND"
	ErrForbidden       ErrCode = "FORBIDDEN"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const hashChunkSize = 4096

type Service interface {
	// Ingest buffers the upload, stores it content-addressed, extracts
	// its text, translates English content to Chinese and persists one
	// document record for the upload event.
	Ingest(ctx context.Context, src io.Reader, filename string, uploaderID int64) (*model.Document, error)

	// Get returns a document to its uploader or to an admin.
	Get(ctx context.Context, id, requesterID int64, requesterRole string) (*model.Document, error)

	ListMine(ctx context.Context, uploaderID int64) ([]model.Document, error)
}

// ----- Service implementation -----

type service struct {
	store      *filestore.Store
	extractors Registry
	tr         translaterepo.Repo
	dr         docrepo.Repo
	cfg        config.App
}

func New(store *filestore.Store, extractors Registry, tr translaterepo.Repo, dr docrepo.Repo, cfg config.App) Service {
	return &service{store: store, extractors: extractors, tr: tr, dr: dr, cfg: cfg}
}

func (s *service) allowed(ext string) bool {
	for _, e := range s.cfg.AllowedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (s *service) Ingest(ctx context.Context, src io.Reader, filename string, uploaderID int64) (*model.Document, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" || !s.allowed(ext) {
		return nil, makeErr(ErrUnsupportedType)
	}

	// Buffer the stream before hashing; the bytes are needed twice.
	tmp, err := os.CreateTemp(s.store.Root(), "upload-*."+ext)
	if err != nil {
		return nil, fmt.Errorf("buffer upload: %w", err)
	}
	tmpPath := tmp.Name()
	placed := false
	defer func() {
		if !placed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("buffer upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("buffer upload: %w", err)
	}

	sum, err := fileMD5(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("hash upload: %w", err)
	}

	finalPath, err := s.store.Put(sum, ext, tmpPath)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	placed = true

	content := s.extract(finalPath, ext)
	translated := s.translate(ctx, content)

	doc := &model.Document{
		Filename:          sum + "." + ext,
		FilePath:          finalPath,
		FileType:          ext,
		Content:           content,
		TranslatedContent: translated,
		UploaderID:        uploaderID,
	}
	if err := s.dr.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}
	return doc, nil
}

// fileMD5 hashes the file in fixed-size chunks. MD5 here is content
// addressing, not integrity against tampering.
func fileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, hashChunkSize)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// extract never fails the ingestion: a parse fault becomes placeholder
// content so the upload is still stored and recorded.
func (s *service) extract(path, ext string) string {
	ex, ok := s.extractors[ext]
	if !ok {
		return fmt.Sprintf("extraction failed: no extractor for %q", ext)
	}
	content, err := ex.Extract(path)
	if err != nil {
		slog.Warn("extraction failed, recording placeholder", "path", path, "type", ext, "err", err)
		return fmt.Sprintf("extraction failed: %v", err)
	}
	return content
}

// translate applies the English heuristic and degrades to pass-through
// on any translator fault, including timeout.
func (s *service) translate(ctx context.Context, content string) string {
	if !likelyEnglish(content) {
		return content
	}

	tctx, cancel := context.WithTimeout(ctx, s.cfg.TranslateTimeout)
	defer cancel()

	out, err := s.tr.Translate(tctx, translaterepo.TranslateReq{Text: content, ToLanguage: "zh"})
	if err != nil {
		slog.Warn("translation failed, keeping original", "err", err)
		return content
	}
	return out
}

// likelyEnglish reports whether more than 80% of the letters are ASCII.
func likelyEnglish(s string) bool {
	var ascii, total int
	for _, r := range s {
		if unicode.IsLetter(r) {
			total++
			if r < 128 {
				ascii++
			}
		}
	}
	return total > 0 && float64(ascii)/float64(total) > 0.8
}

func (s *service) Get(ctx context.Context, id, requesterID int64, requesterRole string) (*model.Document, error) {
	doc, err := s.dr.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrDocNotFound)
		}
		return nil, err
	}
	if doc.UploaderID != requesterID && requesterRole != model.RoleAdmin {
		return nil, makeErr(ErrForbidden)
	}
	return doc, nil
}

func (s *service) ListMine(ctx context.Context, uploaderID int64) ([]model.Document, error) {
	return s.dr.ListByUploader(ctx, uploaderID)
}
