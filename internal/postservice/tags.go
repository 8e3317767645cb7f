package postservice

import (
	"context"
	"database/sql"
	"strings"
)

func normalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// syncTags makes the post's tag set equal to the given names: tags are
// created if absent by normalized name and linked to the post. Runs inside
// the caller's transaction so a post write and its tag resync commit as one
// unit.
func (m *PostModel) syncTags(ctx context.Context, tx *sql.Tx, postID int, tagNames []string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, name := range tagNames {
		trimmed := strings.TrimSpace(name)
		normalized := normalizeTag(name)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		var tagID int
		err := tx.QueryRowContext(ctx, `
			INSERT INTO tags (name, normalized_name)
			VALUES ($1, $2)
			ON CONFLICT (normalized_name) DO UPDATE SET name = tags.name
			RETURNING id`, trimmed, normalized).Scan(&tagID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO post_tags (post_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, postID, tagID)
		if err != nil {
			return err
		}
	}

	return nil
}
