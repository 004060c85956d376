package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"vote-board/internal/domain/comment"
)

type CommentRepo struct {
	db *sql.DB
}

func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) Create(ctx context.Context, c *comment.Comment) error {
	likes, err := json.Marshal(c.Likes)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO comments (id, vote_id, user_id, user_name, user_avatar, content,
                              parent_id, likes, vote_changed, voted_option_text, needs_reply, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `,
		c.ID, c.VoteID, c.UserID, c.UserName, nullIfEmpty(c.UserAvatar), c.Content,
		nullIfEmpty(c.ParentID), likes, c.VoteChanged, nullIfEmpty(c.VotedOptionText),
		c.NeedsReply, c.CreatedAt,
	)
	return err
}

func (r *CommentRepo) GetByID(ctx context.Context, id string) (*comment.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, vote_id, user_id, user_name, user_avatar, content, parent_id,
               likes, vote_changed, voted_option_text, needs_reply, created_at, updated_at
        FROM comments WHERE id = $1
    `, id)

	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, comment.ErrNotFound
	}
	return c, err
}

func (r *CommentRepo) ListByPoll(ctx context.Context, voteID string) ([]comment.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, vote_id, user_id, user_name, user_avatar, content, parent_id,
               likes, vote_changed, voted_option_text, needs_reply, created_at, updated_at
        FROM comments WHERE vote_id = $1 ORDER BY created_at ASC
    `, voteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []comment.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *c)
	}
	return res, rows.Err()
}

func (r *CommentRepo) Update(ctx context.Context, c *comment.Comment) error {
	likes, err := json.Marshal(c.Likes)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
        UPDATE comments
        SET content = $1, likes = $2, needs_reply = $3, updated_at = $4
        WHERE id = $5
    `, c.Content, likes, c.NeedsReply, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return comment.ErrNotFound
	}
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return comment.ErrNotFound
	}
	return nil
}

func (r *CommentRepo) CountByPoll(ctx context.Context, voteID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE vote_id = $1`, voteID).
		Scan(&count)
	return count, err
}

func scanComment(row rowScanner) (*comment.Comment, error) {
	var (
		c         comment.Comment
		avatar    sql.NullString
		parentID  sql.NullString
		optText   sql.NullString
		likes     []byte
		updatedAt sql.NullTime
	)

	err := row.Scan(&c.ID, &c.VoteID, &c.UserID, &c.UserName, &avatar, &c.Content,
		&parentID, &likes, &c.VoteChanged, &optText, &c.NeedsReply, &c.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	c.UserAvatar = avatar.String
	c.ParentID = parentID.String
	c.VotedOptionText = optText.String
	if updatedAt.Valid {
		t := updatedAt.Time
		c.UpdatedAt = &t
	}

	c.Likes = []string{}
	if len(likes) > 0 {
		if err := json.Unmarshal(likes, &c.Likes); err != nil {
			return nil, err
		}
	}
	return &c, nil
}
