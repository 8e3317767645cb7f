package postservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/blogspot/internal/common"
)

func (m *PostModel) insertImage(ctx context.Context, postID int, img *PostImage) error {
	// sort order continues from the post's current maximum
	query := `
		INSERT INTO post_images (post_id, image_url, alt_text, sort_order)
		VALUES ($1, $2, $3, (SELECT coalesce(max(sort_order), 0) + 1 FROM post_images WHERE post_id = $1))
		RETURNING id, sort_order`

	return m.db.QueryRowContext(ctx, query, postID, img.ImageURL, img.AltText).Scan(&img.ID, &img.SortOrder)
}

func (m *PostModel) deleteImage(ctx context.Context, postID, imageID int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM post_images WHERE id = $1 AND post_id = $2`, imageID, postID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrImageNotFound
	}
	return nil
}

type AddImageRequest struct {
	ImageURL string  `json:"image_url"`
	AltText  *string `json:"alt_text"`
}

// AddImage attaches an already-uploaded image URL to a post. The storage
// collaborator owns the bytes; only the URL string is kept here.
func (s *PostService) AddImage(ctx context.Context, userID, postID int, req *AddImageRequest) (*PostImage, error) {
	v := common.NewValidator()
	v.Check(req.ImageURL != "", "image_url", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	authorID, err := s.m.getPostOwner(ctx, postID)
	if err != nil {
		return nil, err
	}
	if authorID != userID {
		return nil, ErrNotOwner
	}

	img := &PostImage{ImageURL: req.ImageURL, AltText: req.AltText}
	if err := s.m.insertImage(ctx, postID, img); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return img, nil
}

func (s *PostService) RemoveImage(ctx context.Context, userID, postID, imageID int) error {
	authorID, err := s.m.getPostOwner(ctx, postID)
	if err != nil {
		return err
	}
	if authorID != userID {
		return ErrNotOwner
	}

	return s.m.deleteImage(ctx, postID, imageID)
}
