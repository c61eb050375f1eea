package repo

import (
	"context"
	"database/sql"

	"linkedout/internal/domain"
)

// PutFile stores or replaces the file at f.Path.
func (r Repo) PutFile(ctx context.Context, tx *sql.Tx, f domain.StoredFile) error {
	_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO files(path,owner_id,kind,name,content_type,data,created_at) VALUES (?,?,?,?,?,?,?)`,
		f.Path, f.OwnerID, f.Kind, f.Name, f.ContentType, f.Data, f.CreatedAt)
	return err
}

func (r Repo) GetFile(ctx context.Context, path string) (domain.StoredFile, error) {
	var f domain.StoredFile
	err := r.DB.QueryRowContext(ctx, `SELECT path,owner_id,kind,name,content_type,data,created_at FROM files WHERE path=?`, path).
		Scan(&f.Path, &f.OwnerID, &f.Kind, &f.Name, &f.ContentType, &f.Data, &f.CreatedAt)
	if err == sql.ErrNoRows {
		return f, ErrNotFound
	}
	return f, err
}
