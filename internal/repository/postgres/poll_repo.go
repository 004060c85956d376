package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"vote-board/internal/domain/poll"
)

// PollRepo stores each poll as one row: the embedded options, vote records
// and custom questions live in JSONB columns, mirroring the aggregate.
type PollRepo struct {
	db *sql.DB
}

func NewPollRepo(db *sql.DB) *PollRepo {
	return &PollRepo{db: db}
}

func (r *PollRepo) Create(ctx context.Context, p *poll.Poll) error {
	options, err := json.Marshal(p.Options)
	if err != nil {
		return err
	}
	records, err := json.Marshal(p.VoteRecords)
	if err != nil {
		return err
	}
	questions, err := marshalQuestions(p.CustomQuestions)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO votes (id, title, options, category, author_id, author_name,
                           vote_records, custom_questions, show_analytics, is_private, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `,
		p.ID, p.Title, options, nullIfEmpty(p.Category), nullIfEmpty(p.AuthorID),
		nullIfEmpty(p.AuthorName), records, questions, p.ShowAnalytics, p.IsPrivate, p.CreatedAt,
	)
	return err
}

func (r *PollRepo) GetByID(ctx context.Context, id string) (*poll.Poll, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, title, options, category, author_id, author_name,
               vote_records, custom_questions, show_analytics, is_private, created_at
        FROM votes WHERE id = $1
    `, id)

	p, err := scanPoll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, poll.ErrNotFound
	}
	return p, err
}

func (r *PollRepo) List(ctx context.Context) ([]poll.Poll, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, title, options, category, author_id, author_name,
               vote_records, custom_questions, show_analytics, is_private, created_at
        FROM votes ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []poll.Poll
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *p)
	}
	return res, rows.Err()
}

func (r *PollRepo) Update(ctx context.Context, p *poll.Poll) error {
	options, err := json.Marshal(p.Options)
	if err != nil {
		return err
	}
	records, err := json.Marshal(p.VoteRecords)
	if err != nil {
		return err
	}
	questions, err := marshalQuestions(p.CustomQuestions)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
        UPDATE votes
        SET title = $1, options = $2, category = $3, author_id = $4, author_name = $5,
            vote_records = $6, custom_questions = $7, show_analytics = $8, is_private = $9
        WHERE id = $10
    `,
		p.Title, options, nullIfEmpty(p.Category), nullIfEmpty(p.AuthorID),
		nullIfEmpty(p.AuthorName), records, questions, p.ShowAnalytics, p.IsPrivate, p.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return poll.ErrNotFound
	}
	return nil
}

// Delete cascades comments first, then the poll, in one transaction.
func (r *PollRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE vote_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return poll.ErrNotFound
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (*poll.Poll, error) {
	var (
		p         poll.Poll
		options   []byte
		records   []byte
		questions []byte
		category  sql.NullString
		authorID  sql.NullString
		author    sql.NullString
	)

	err := row.Scan(&p.ID, &p.Title, &options, &category, &authorID, &author,
		&records, &questions, &p.ShowAnalytics, &p.IsPrivate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.Category = category.String
	p.AuthorID = authorID.String
	p.AuthorName = author.String
	p.VoteRecords = []poll.VoteRecord{}

	if err := json.Unmarshal(options, &p.Options); err != nil {
		return nil, err
	}
	if len(records) > 0 {
		if err := json.Unmarshal(records, &p.VoteRecords); err != nil {
			return nil, err
		}
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &p.CustomQuestions); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func marshalQuestions(questions []poll.CustomQuestion) ([]byte, error) {
	if len(questions) == 0 {
		return nil, nil
	}
	return json.Marshal(questions)
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
