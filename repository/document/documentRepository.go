package document

import (
	"context"
	"database/sql"

	"libloan/model"
)

type Repo interface {
	Create(ctx context.Context, d *model.Document) error
	ByID(ctx context.Context, id int64) (*model.Document, error)
	ListByUploader(ctx context.Context, uploaderID int64) ([]model.Document, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, d *model.Document) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO documents (filename, file_path, file_type, content, translated_content, uploader_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, upload_time`,
		d.Filename, d.FilePath, d.FileType, d.Content, d.TranslatedContent, d.UploaderID,
	).Scan(&d.ID, &d.UploadTime)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Document, error) {
	d := &model.Document{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, filename, file_path, file_type, content, translated_content, uploader_id, upload_time
		FROM documents
		WHERE id = $1`, id,
	).Scan(&d.ID, &d.Filename, &d.FilePath, &d.FileType, &d.Content,
		&d.TranslatedContent, &d.UploaderID, &d.UploadTime)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repo) ListByUploader(ctx context.Context, uploaderID int64) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, file_path, file_type, content, translated_content, uploader_id, upload_time
		FROM documents
		WHERE uploader_id = $1
		ORDER BY upload_time DESC`, uploaderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.Filename, &d.FilePath, &d.FileType, &d.Content,
			&d.TranslatedContent, &d.UploaderID, &d.UploadTime); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
